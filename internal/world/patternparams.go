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

package world

import "github.com/mfleminks/dpcl/internal/ast"

// PatternParams scans a frame's action (or a reactive rule's event pattern)
// for bare names that act as frame-local pattern variables: bare names in
// refinement values, a scoped event's agent, a production's object, or a
// naming event's entity and descriptor that are not declared atomics
// (reserved words are a separate node type and never collected), and are
// therefore bound the first time they're encountered during matching
// (spec.md §4.4 step 2(b)). This mirrors how a compound frame's own
// params become bindable inside its content, but scoped to a single
// frame's action instead of an enclosing instance.
func PatternParams(s *Store, ev ast.Event) map[string]bool {
	out := map[string]bool{}
	collectEventParams(s, ev, out)
	return out
}

func collectEventParams(s *Store, ev ast.Event, out map[string]bool) {
	if ev == nil {
		return
	}
	switch e := ev.(type) {
	case *ast.RefinedEvent:
		for _, k := range e.Refinement.SortedKeys() {
			collectRefinementValueParams(s, e.Refinement[k], out)
		}
	case *ast.ScopedEvent:
		collectRefParams(s, e.Agent, out)
		collectEventParams(s, e.Action, out)
	case *ast.Production:
		collectRefParams(s, e.Object, out)
	case *ast.Naming:
		collectRefParams(s, e.Entity, out)
		collectRefParams(s, e.Descriptor, out)
	}
}

func collectRefinementValueParams(s *Store, v ast.RefinementValue, out map[string]bool) {
	switch rv := v.(type) {
	case ast.ObjectValue:
		collectRefParams(s, rv.Ref, out)
	case ast.EventValue:
		collectEventParams(s, rv.Ev, out)
	}
}

func collectRefParams(s *Store, ref ast.ObjectRef, out map[string]bool) {
	switch r := ref.(type) {
	case *ast.Name:
		if !s.IsAtomic(r.Value) {
			out[r.Value] = true
		}
	case *ast.Refined:
		collectRefParams(s, r.Object, out)
		for _, k := range r.Refinement.SortedKeys() {
			collectRefinementValueParams(s, r.Refinement[k], out)
		}
	case *ast.Scoped:
		collectRefParams(s, r.Scope, out)
	}
}
