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

package unify

import (
	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/world"
)

// MatchPower attempts to unify an external action request against a power
// frame's holder and action (spec.md §4.4). base carries the frame's
// enclosing scope (self and any bound compound-instance parameters);
// params names the frame's own local pattern variables (world.FrameHandle.
// PatternParams), bound the first time matching encounters them.
func MatchPower(store *world.Store, base Env, frame *ast.PowerFrame, params map[string]bool, agent string, action ast.Event) (Env, bool, error) {
	env := base.Clone()
	for name := range params {
		env.Params[name] = true
	}
	ok, err := matchHolder(store, env, frame.Holder, agent)
	if err != nil || !ok {
		return env, false, err
	}
	env = env.BindObject(string(ast.Holder), agent)
	env, ok = UnifyEvent(store, env, frame.Action, action)
	return env, ok, nil
}

// matchHolder implements spec.md §4.4 step 1.
func matchHolder(store *world.Store, env Env, holder ast.ObjectRef, agent string) (bool, error) {
	switch h := holder.(type) {
	case *ast.Wildcard:
		return true, nil
	case *ast.Name:
		if bound, ok := env.Lookup(h.Value); ok {
			return bound == agent, nil
		}
		return h.Value == agent || store.HasRelation(agent, h.Value), nil
	default:
		resolved, err := ResolveRef(store, env, holder)
		if err != nil {
			return false, err
		}
		return resolved == agent, nil
	}
}

// MatchReactive attempts to unify an observed event against a reactive
// rule's event pattern (spec.md §4.5 step 3), using the same unification
// discipline as power matching but without a holder or agent. A top-level
// #* pattern matches nothing here: wildcards unify only in power actions
// (spec.md §9, Open Question 2).
func MatchReactive(store *world.Store, base Env, rule *ast.ReactiveRule, params map[string]bool, observed ast.Event) (Env, bool) {
	if _, wild := rule.EventPattern.(*ast.WildcardEvent); wild {
		return base, false
	}
	env := base.Clone()
	for name := range params {
		env.Params[name] = true
	}
	return UnifyEvent(store, env, rule.EventPattern, observed)
}

// UnifyEvent structurally unifies pattern (the template/frame side) against
// actual (the observed event), extending env with any parameter bindings
// recorded along the way. A *ast.WildcardEvent pattern unifies with any
// event; MatchReactive refuses a top-level wildcard before calling this
// (spec.md §9, Open Question 2).
func UnifyEvent(store *world.Store, env Env, pattern, actual ast.Event) (Env, bool) {
	switch p := pattern.(type) {
	case *ast.WildcardEvent:
		return env, true

	case *ast.AtomicEvent:
		tag, ok := eventTag(actual)
		return env, ok && tag == p.Tag

	case *ast.RefinedEvent:
		tag, ok := eventTag(actual)
		if !ok || tag != p.Tag {
			return env, false
		}
		actualRef, _ := eventRefinement(actual)
		return unifyRefinement(store, env, p.Refinement, actualRef)

	case *ast.ScopedEvent:
		a, ok := actual.(*ast.ScopedEvent)
		if !ok {
			return env, false
		}
		env, ok = unifyObjectRef(store, env, p.Agent, a.Agent)
		if !ok {
			return env, false
		}
		return UnifyEvent(store, env, p.Action, a.Action)

	case *ast.Production:
		a, ok := actual.(*ast.Production)
		if !ok || a.Op != p.Op {
			return env, false
		}
		return unifyObjectRef(store, env, p.Object, a.Object)

	case *ast.Naming:
		a, ok := actual.(*ast.Naming)
		if !ok || a.Gains != p.Gains {
			return env, false
		}
		env, ok = unifyObjectRef(store, env, p.Entity, a.Entity)
		if !ok {
			return env, false
		}
		return unifyObjectRef(store, env, p.Descriptor, a.Descriptor)

	default:
		return env, false
	}
}

func eventTag(ev ast.Event) (string, bool) {
	switch e := ev.(type) {
	case *ast.AtomicEvent:
		return e.Tag, true
	case *ast.RefinedEvent:
		return e.Tag, true
	default:
		return "", false
	}
}

func eventRefinement(ev ast.Event) (ast.Refinement, bool) {
	if r, ok := ev.(*ast.RefinedEvent); ok {
		return r.Refinement, true
	}
	return nil, false
}

// unifyRefinement implements spec.md §4.4 step 2's refinement clause: each
// key in the pattern's refinement either names a free template parameter
// (recorded as a binding) or must resolve, under env, to a value equal to
// the actual's value at that key.
func unifyRefinement(store *world.Store, env Env, pattern ast.Refinement, actual ast.Refinement) (Env, bool) {
	for _, k := range pattern.SortedKeys() {
		actualVal, present := actual[k]
		if !present {
			return env, false
		}
		patVal := pattern[k]
		var ok bool
		env, ok = unifyRefinementValue(store, env, patVal, actualVal)
		if !ok {
			return env, false
		}
	}
	return env, true
}

func unifyRefinementValue(store *world.Store, env Env, pat, actual ast.RefinementValue) (Env, bool) {
	switch p := pat.(type) {
	case ast.ObjectValue:
		a, ok := actual.(ast.ObjectValue)
		if !ok {
			return env, false
		}
		return unifyObjectRef(store, env, p.Ref, a.Ref)
	case ast.EventValue:
		a, ok := actual.(ast.EventValue)
		if !ok {
			return env, false
		}
		return UnifyEvent(store, env, p.Ev, a.Ev)
	default:
		return env, false
	}
}

// unifyObjectRef resolves pattern: if it names a free (declared but
// unbound) template parameter, the binding is recorded against actual's
// resolved value; otherwise pattern must resolve, under env, to the same
// entity as actual.
func unifyObjectRef(store *world.Store, env Env, pattern, actual ast.ObjectRef) (Env, bool) {
	if name, isParam := freeParamName(env, pattern); isParam {
		resolvedActual, err := ResolveRef(store, NewEnv(), actual)
		if err != nil {
			return env, false
		}
		return env.BindObject(name, resolvedActual), true
	}
	resolvedPat, err := ResolveRef(store, env, pattern)
	if err != nil {
		return env, false
	}
	resolvedActual, err := ResolveRef(store, NewEnv(), actual)
	if err != nil {
		return env, false
	}
	return env, resolvedPat == resolvedActual
}

// freeParamName reports whether ref is a bare name naming a declared
// template parameter that is not yet bound in env — the only situation in
// which a name on the pattern side acts as a logic variable (spec.md §9).
func freeParamName(env Env, ref ast.ObjectRef) (string, bool) {
	n, ok := ref.(*ast.Name)
	if !ok {
		return "", false
	}
	if !env.Params[n.Value] {
		return "", false
	}
	if _, bound := env.Lookup(n.Value); bound {
		return "", false
	}
	return n.Value, true
}
