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

// Package unify implements the refinement unification discipline of
// spec.md §4.4: matching an external action request against a power
// frame's action, and resolving object references against the current
// binding environment. There is no backtracking and no general logic
// variable engine — refinements are small key-indexed maps, matched
// key-by-key against the accumulated bindings (spec.md §9).
package unify

import "github.com/mfleminks/dpcl/internal/ast"

// Env is the accumulated binding environment produced by a successful
// unification: the frame's holder, the enclosing instance (self), and any
// refinement parameters bound during matching.
type Env struct {
	Objects map[string]string    // bound name -> resolved entity name
	Events  map[string]ast.Event // bound name -> event (event-valued refinement)
	Params  map[string]bool      // declared template parameter names, bound or not
}

// NewEnv returns an empty, ready-to-use Env.
func NewEnv() Env {
	return Env{Objects: map[string]string{}, Events: map[string]ast.Event{}, Params: map[string]bool{}}
}

// WithParams returns a copy of e with its declared parameter set replaced by
// params — the names a compound frame's content may bind during unification
// (spec.md §4.2). Root-scope frames declare none.
func (e Env) WithParams(params []string) Env {
	out := e.Clone()
	out.Params = make(map[string]bool, len(params))
	for _, p := range params {
		out.Params[p] = true
	}
	return out
}

// Clone returns a deep copy, so speculative matching never mutates a
// caller's environment on failure.
func (e Env) Clone() Env {
	out := NewEnv()
	for k, v := range e.Objects {
		out.Objects[k] = v
	}
	for k, v := range e.Events {
		out.Events[k] = v
	}
	for k, v := range e.Params {
		out.Params[k] = v
	}
	return out
}

// BindObject returns a copy of e with name bound to entity.
func (e Env) BindObject(name, entity string) Env {
	out := e.Clone()
	out.Objects[name] = entity
	return out
}

// BindEvent returns a copy of e with name bound to ev.
func (e Env) BindEvent(name string, ev ast.Event) Env {
	out := e.Clone()
	out.Events[name] = ev
	return out
}

// Lookup returns the entity bound to name, if any.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := e.Objects[name]
	return v, ok
}
