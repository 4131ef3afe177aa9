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

// Frame is implemented by every frame variant: PowerFrame, DeonticFrame,
// CompoundFrame, TransformationalRule, and ReactiveRule.
type Frame interface {
	frame()
	Span() token.Span
	FrameAlias() string
}

// PowerPosition is a power frame's modal position.
type PowerPosition string

const (
	Power      PowerPosition = "power"
	Liability  PowerPosition = "liability"
	Disability PowerPosition = "disability"
	Immunity   PowerPosition = "immunity"
)

// PowerFrame asserts that when Holder performs Action (modulo refinement
// unification), Consequence fires.
type PowerFrame struct {
	Position    PowerPosition
	Holder      ObjectRef
	Action      Event
	Consequence Event
	Alias       string
	Pos         token.Span
}

func (*PowerFrame) frame()            {}
func (p *PowerFrame) Span() token.Span { return p.Pos }
func (p *PowerFrame) FrameAlias() string { return p.Alias }

// DeonticPosition is a deontic frame's modal position.
type DeonticPosition string

const (
	Duty        DeonticPosition = "duty"
	Prohibition DeonticPosition = "prohibition"
	Liberty     DeonticPosition = "liberty"
	Claim       DeonticPosition = "claim"
	Protection  DeonticPosition = "protection"
	NoClaim     DeonticPosition = "no-claim"
)

// DeonticFrame tracks an obligation with optional violation, fulfillment,
// and termination triggers.
type DeonticFrame struct {
	Position     DeonticPosition
	Holder       ObjectRef
	Counterparty ObjectRef // optional, may be nil
	Action       Event
	Violation    Trigger
	Fulfillment  Trigger
	Termination  Trigger
	Alias        string
	Pos          token.Span
}

func (*DeonticFrame) frame()            {}
func (d *DeonticFrame) Span() token.Span { return d.Pos }
func (d *DeonticFrame) FrameAlias() string { return d.Alias }

// CompoundFrame is a template for creating parameterized instances.
type CompoundFrame struct {
	Object             string
	Params             []string
	Content            []Directive
	InitialDescriptors []ObjectRef
	Alias              string
	Pos                token.Span
}

func (*CompoundFrame) frame()            {}
func (c *CompoundFrame) Span() token.Span { return c.Pos }
func (c *CompoundFrame) FrameAlias() string { return c.Alias }

// TransformationalRule asserts Conclusion whenever Condition is true
// (monotone, run to fixpoint between events).
type TransformationalRule struct {
	Condition  BoolExpr
	Conclusion Event
	Alias      string
	Pos        token.Span
}

func (*TransformationalRule) frame()            {}
func (t *TransformationalRule) Span() token.Span { return t.Pos }
func (t *TransformationalRule) FrameAlias() string { return t.Alias }

// ReactiveRule fires Reaction whenever an observed event matches EventPattern.
// EventPattern must be present; a nil pattern is rejected at load time
// (spec.md §9, Open Question 1).
type ReactiveRule struct {
	EventPattern Event
	Reaction     Event
	Alias        string
	Pos          token.Span
}

func (*ReactiveRule) frame()            {}
func (r *ReactiveRule) Span() token.Span { return r.Pos }
func (r *ReactiveRule) FrameAlias() string { return r.Alias }
