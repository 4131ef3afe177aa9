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

package eval

import (
	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/token"
	"github.com/mfleminks/dpcl/internal/unify"
)

// instantiateEvent substitutes every bound name (a parameter, self, or
// holder) appearing in ev with its concrete binding from env, producing a
// concrete event ready to enqueue. Object references that don't name a
// live entity yet (e.g. a `plus` of a fresh compound-template instance)
// are left structurally intact, since they're resolved by the apply step,
// not by unification.
func instantiateEvent(env unify.Env, ev ast.Event) ast.Event {
	switch e := ev.(type) {
	case *ast.AtomicEvent, *ast.WildcardEvent:
		return ev

	case *ast.RefinedEvent:
		return &ast.RefinedEvent{Tag: e.Tag, Refinement: instantiateRefinement(env, e.Refinement), Pos: e.Pos}

	case *ast.ScopedEvent:
		return &ast.ScopedEvent{Agent: instantiateRef(env, e.Agent), Action: instantiateEvent(env, e.Action), Pos: e.Pos}

	case *ast.Production:
		return &ast.Production{Op: e.Op, Object: instantiateRef(env, e.Object), Pos: e.Pos}

	case *ast.Naming:
		return &ast.Naming{
			Entity:     instantiateRef(env, e.Entity),
			Descriptor: instantiateRef(env, e.Descriptor),
			Gains:      e.Gains,
			Pos:        e.Pos,
		}

	default:
		return ev
	}
}

func instantiateRefinement(env unify.Env, r ast.Refinement) ast.Refinement {
	if r == nil {
		return nil
	}
	out := make(ast.Refinement, len(r))
	for k, v := range r {
		switch rv := v.(type) {
		case ast.ObjectValue:
			out[k] = ast.ObjectValue{Ref: instantiateRef(env, rv.Ref)}
		case ast.EventValue:
			out[k] = ast.EventValue{Ev: instantiateEvent(env, rv.Ev)}
		default:
			out[k] = v
		}
	}
	return out
}

func instantiateRef(env unify.Env, ref ast.ObjectRef) ast.ObjectRef {
	switch r := ref.(type) {
	case *ast.Name:
		if bound, ok := env.Lookup(r.Value); ok {
			return &ast.Name{Value: bound, Pos: r.Pos}
		}
		return r

	case *ast.Reserved:
		if bound, ok := env.Lookup(string(r.Word)); ok {
			return &ast.Name{Value: bound, Pos: r.Pos}
		}
		return r

	case *ast.Refined:
		return &ast.Refined{
			Object:     instantiateRef(env, r.Object),
			Refinement: instantiateRefinement(env, r.Refinement),
			Alias:      r.Alias,
			Pos:        r.Pos,
		}

	case *ast.Scoped:
		return &ast.Scoped{Scope: instantiateRef(env, r.Scope), Name: r.Name, Pos: r.Pos}

	default:
		return ref
	}
}

// instantiateFrame substitutes bound names throughout a content frame
// before it joins the live set, the same way instantiateEvent does for
// events. A nested *ast.CompoundFrame is returned unchanged (its own
// params are fresh and unrelated to the enclosing instance's bindings);
// the caller registers it as a template rather than adding it as a frame.
func instantiateFrame(env unify.Env, frame ast.Frame) ast.Frame {
	switch f := frame.(type) {
	case *ast.PowerFrame:
		return &ast.PowerFrame{
			Position:    f.Position,
			Holder:      instantiateRef(env, f.Holder),
			Action:      instantiateEvent(env, f.Action),
			Consequence: instantiateEvent(env, f.Consequence),
			Alias:       f.Alias,
			Pos:         f.Pos,
		}

	case *ast.DeonticFrame:
		out := &ast.DeonticFrame{
			Position: f.Position,
			Holder:   instantiateRef(env, f.Holder),
			Action:   instantiateEvent(env, f.Action),
			Alias:    f.Alias,
			Pos:      f.Pos,
		}
		if f.Counterparty != nil {
			out.Counterparty = instantiateRef(env, f.Counterparty)
		}
		out.Violation = instantiateTrigger(env, f.Violation)
		out.Fulfillment = instantiateTrigger(env, f.Fulfillment)
		out.Termination = instantiateTrigger(env, f.Termination)
		return out

	case *ast.TransformationalRule:
		return &ast.TransformationalRule{
			Condition:  instantiateBool(env, f.Condition),
			Conclusion: instantiateEvent(env, f.Conclusion),
			Alias:      f.Alias,
			Pos:        f.Pos,
		}

	case *ast.ReactiveRule:
		return &ast.ReactiveRule{
			EventPattern: instantiateEvent(env, f.EventPattern),
			Reaction:     instantiateEvent(env, f.Reaction),
			Alias:        f.Alias,
			Pos:          f.Pos,
		}

	default:
		return frame
	}
}

func instantiateTrigger(env unify.Env, t ast.Trigger) ast.Trigger {
	if t.IsZero() {
		return t
	}
	out := ast.Trigger{}
	if t.EventPattern != nil {
		out.EventPattern = instantiateEvent(env, t.EventPattern)
	}
	if t.BoolExpr != nil {
		out.BoolExpr = instantiateBool(env, t.BoolExpr)
	}
	return out
}

func instantiateBool(env unify.Env, expr ast.BoolExpr) ast.BoolExpr {
	switch b := expr.(type) {
	case *ast.BoolLiteral:
		return b
	case *ast.Negate:
		return &ast.Negate{Expr: instantiateBool(env, b.Expr), Pos: b.Pos}
	case *ast.HasCondition:
		return &ast.HasCondition{
			Entity:     instantiateRef(env, b.Entity),
			Descriptor: instantiateRef(env, b.Descriptor),
			Has:        b.Has,
			Pos:        b.Pos,
		}
	case *ast.RefExists:
		return &ast.RefExists{Ref: instantiateRef(env, b.Ref), Pos: b.Pos}
	default:
		return expr
	}
}

// violationMarker builds the synthetic naming event that reports a deontic
// frame's violation: `has(alias, violated) = true` (spec.md §4.5 step 6).
// The prose schema describes this as `plus {scope: alias, name: violated}`;
// modeling it as a naming event lets reactive rules observe it with the
// same structural-comparison discipline used for every other naming event.
func violationMarker(alias string) ast.Event {
	return &ast.Naming{
		Entity:     &ast.Name{Value: alias, Pos: token.None},
		Descriptor: &ast.Name{Value: "violated", Pos: token.None},
		Gains:      true,
	}
}
