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

// Event is implemented by every event variant named in spec.md §3.
type Event interface {
	event()
	Span() token.Span
}

// ProdOp distinguishes a production event's polarity.
type ProdOp int

const (
	Plus ProdOp = iota
	Minus
)

// AtomicEvent is a bare, tagged event such as #timeout.
type AtomicEvent struct {
	Tag string
	Pos token.Span
}

func (*AtomicEvent) event()           {}
func (a *AtomicEvent) Span() token.Span { return a.Pos }

// WildcardEvent is #*, which unifies with any event (power actions only).
type WildcardEvent struct {
	Pos token.Span
}

func (*WildcardEvent) event()           {}
func (w *WildcardEvent) Span() token.Span { return w.Pos }

// RefinedEvent is an event tag with a refinement, e.g. #borrow refined by
// {item: dracula}.
type RefinedEvent struct {
	Tag        string
	Refinement Refinement
	Pos        token.Span
}

func (*RefinedEvent) event()           {}
func (r *RefinedEvent) Span() token.Span { return r.Pos }

// ScopedEvent is an external action request: an agent performing an action.
type ScopedEvent struct {
	Agent  ObjectRef
	Action Event
	Pos    token.Span
}

func (*ScopedEvent) event()           {}
func (s *ScopedEvent) Span() token.Span { return s.Pos }

// Production creates (Plus) or destroys (Minus) a frame instance.
type Production struct {
	Op     ProdOp
	Object ObjectRef
	Pos    token.Span
}

func (*Production) event()           {}
func (p *Production) Span() token.Span { return p.Pos }

// Naming adds or removes a descriptor relation.
type Naming struct {
	Entity     ObjectRef
	Descriptor ObjectRef
	Gains      bool
	Pos        token.Span
}

func (*Naming) event()           {}
func (n *Naming) Span() token.Span { return n.Pos }
