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

// Directive is implemented by every top-level (or compound-frame content)
// directive kind named in spec.md §6: atomic declarations, the five frame
// kinds, import, and bare events.
type Directive interface {
	directive()
	Span() token.Span
}

// AtomicsDecl declares a vocabulary of atomic entity names.
type AtomicsDecl struct {
	Names []string
	Pos   token.Span
}

func (*AtomicsDecl) directive()        {}
func (a *AtomicsDecl) Span() token.Span { return a.Pos }

// FrameDirective wraps any Frame so it can also serve as a Directive: power
// frames, deontic frames, compound frames, and the two rule kinds are all
// both frames and directives.
type FrameDirective struct {
	Frame Frame
}

func (*FrameDirective) directive()        {}
func (f *FrameDirective) Span() token.Span { return f.Frame.Span() }

// ImportDirective textually includes another program file, resolved
// against a filesystem search path and bound to Alias.
type ImportDirective struct {
	Name  string
	Alias string
	Pos   token.Span
}

func (*ImportDirective) directive()        {}
func (i *ImportDirective) Span() token.Span { return i.Pos }

// EventDirective is a bare event, injected into the evaluator's work queue
// at load time.
type EventDirective struct {
	Event Event
	Pos   token.Span
}

func (*EventDirective) directive()        {}
func (e *EventDirective) Span() token.Span { return e.Pos }
