// Copyright (c) 2014, Kevin Walsh.  All rights reserved.
// Copyright (c) 2026, the dpcl authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import "github.com/mfleminks/dpcl/internal/token"

// BoolExpr is implemented by every boolean-expression variant (spec.md §4.6).
type BoolExpr interface {
	boolExpr()
	Span() token.Span
}

// BoolLiteral is the literal `true` or `false`.
type BoolLiteral struct {
	Value bool
	Pos   token.Span
}

func (*BoolLiteral) boolExpr()         {}
func (b *BoolLiteral) Span() token.Span { return b.Pos }

// HasCondition is {entity, has, descriptor}: true iff has(entity,
// descriptor) == Has.
type HasCondition struct {
	Entity     ObjectRef
	Descriptor ObjectRef
	Has        bool
	Pos        token.Span
}

func (*HasCondition) boolExpr()         {}
func (h *HasCondition) Span() token.Span { return h.Pos }

// Negate is {negate: expr}.
type Negate struct {
	Expr BoolExpr
	Pos  token.Span
}

func (*Negate) boolExpr()         {}
func (n *Negate) Span() token.Span { return n.Pos }

// RefExists is a bare object reference used as a condition: true iff the
// reference resolves to a live object (instance or atomic).
type RefExists struct {
	Ref ObjectRef
	Pos token.Span
}

func (*RefExists) boolExpr()         {}
func (r *RefExists) Span() token.Span { return r.Pos }

// Trigger is a deontic frame's violation/fulfillment/termination condition:
// either an event pattern or a boolean expression, never both (spec.md §3).
type Trigger struct {
	EventPattern Event
	BoolExpr     BoolExpr
}

// IsZero reports whether the trigger is absent.
func (t Trigger) IsZero() bool {
	return t.EventPattern == nil && t.BoolExpr == nil
}
