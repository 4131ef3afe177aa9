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

// Package ast is the tagged-variant term model for DPCL: object references,
// events, refinements, and the frames built from them. Every node is
// distinguished by its Go type (a structural tag), never by field presence
// or absence, and carries a token.Span for diagnostics.
package ast

import (
	"sort"

	"github.com/mfleminks/dpcl/internal/token"
)

// ReservedWord names a keyword bound only inside certain scopes.
type ReservedWord string

const (
	Self   ReservedWord = "self"
	Super  ReservedWord = "super"
	Holder ReservedWord = "holder"
)

// ObjectRef is implemented by every object-reference variant: Name,
// Reserved, Wildcard, Refined, and Scoped.
type ObjectRef interface {
	objectRef()
	Span() token.Span
}

// Name is a bare reference to a declared atomic, a live instance, or a
// bound parameter.
type Name struct {
	Value string
	Pos   token.Span
}

func (*Name) objectRef()        {}
func (n *Name) Span() token.Span { return n.Pos }

// Reserved is a reference to one of {self, super, holder}, resolved
// dynamically against the current evaluation environment.
type Reserved struct {
	Word ReservedWord
	Pos  token.Span
}

func (*Reserved) objectRef()        {}
func (r *Reserved) Span() token.Span { return r.Pos }

// Wildcard is the `*` object reference: matches any holder.
type Wildcard struct {
	Pos token.Span
}

func (*Wildcard) objectRef()        {}
func (w *Wildcard) Span() token.Span { return w.Pos }

// Refined is an object qualified by a refinement, e.g. a book refined by
// {title: dracula}.
type Refined struct {
	Object     ObjectRef
	Refinement Refinement
	Alias      string
	Pos        token.Span
}

func (*Refined) objectRef()        {}
func (r *Refined) Span() token.Span { return r.Pos }

// Scoped names a child of another object, e.g. {scope: library, name: desk}.
type Scoped struct {
	Scope ObjectRef
	Name  string
	Pos   token.Span
}

func (*Scoped) objectRef()        {}
func (s *Scoped) Span() token.Span { return s.Pos }

// RefinementValue is implemented by the two kinds of refinement value:
// an object reference or an event.
type RefinementValue interface {
	refinementValue()
}

// ObjectValue wraps an ObjectRef used as a refinement value.
type ObjectValue struct {
	Ref ObjectRef
}

func (ObjectValue) refinementValue() {}

// EventValue wraps an Event used as a refinement value.
type EventValue struct {
	Ev Event
}

func (EventValue) refinementValue() {}

// Refinement is a mapping from parameter names (or, for event-refinements,
// event tags) to object references or events. Keys are compared for
// equality; iteration order is not significant to unification and is only
// made deterministic (via SortedKeys) for diagnostics and output.
type Refinement map[string]RefinementValue

// SortedKeys returns the refinement's keys in a stable, deterministic
// order, since encoding/json does not preserve source key order.
func (r Refinement) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
