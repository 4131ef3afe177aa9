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
	"github.com/google/uuid"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/dpclerr"
	"github.com/mfleminks/dpcl/internal/unify"
	"github.com/mfleminks/dpcl/internal/world"
)

// apply implements spec.md §4.5 step 4: production and naming events mutate
// the store; scoped (action-request), atomic, and refined events have no
// direct side effect of their own beyond the matching already done in
// steps 2-3.
func (e *Engine) apply(item queueItem) error {
	switch ev := item.Event.(type) {
	case *ast.Production:
		if ev.Op == ast.Plus {
			return e.applyPlus(ev, item.Env, item.Owner)
		}
		return e.applyMinus(ev, item.Env, item.Owner)
	case *ast.Naming:
		return e.applyNaming(ev, item.Env)
	default:
		return nil
	}
}

func (e *Engine) applyPlus(ev *ast.Production, env unify.Env, owner world.Owner) error {
	refined, ok := ev.Object.(*ast.Refined)
	if !ok {
		return dpclerr.New(dpclerr.RuntimeError, ev.Span(), "plus requires a refined template reference")
	}
	tmplName, ok := refined.Object.(*ast.Name)
	if !ok {
		return dpclerr.New(dpclerr.NameError, ev.Span(), "plus target must name a compound frame")
	}
	tmpl, ok := e.templates[tmplName.Value]
	if !ok {
		return dpclerr.New(dpclerr.NameError, ev.Span(), "unknown compound frame %q", tmplName.Value)
	}

	bindings := make(map[string]string, len(tmpl.Params))
	for _, p := range tmpl.Params {
		rv, ok := refined.Refinement[p]
		if !ok {
			return dpclerr.New(dpclerr.SchemaError, ev.Span(), "missing binding for parameter %q of %q", p, tmpl.Object)
		}
		ov, ok := rv.(ast.ObjectValue)
		if !ok {
			return dpclerr.New(dpclerr.SchemaError, ev.Span(), "parameter %q of %q must bind to an object", p, tmpl.Object)
		}
		resolved, err := unify.ResolveRef(e.store, env, ov.Ref)
		if err != nil {
			return err
		}
		bindings[p] = resolved
	}

	id := e.store.CreateInstance(tmpl.Object, bindings, owner)
	instEnv := unify.NewEnv().BindObject(string(ast.Self), id.String())
	for k, v := range bindings {
		instEnv = instEnv.BindObject(k, v)
	}

	for _, d := range tmpl.InitialDescriptors {
		descriptor, err := unify.ResolveRef(e.store, instEnv, d)
		if err != nil {
			return err
		}
		e.store.AssertHas(id.String(), descriptor)
	}

	for _, dir := range tmpl.Content {
		if err := e.applyDirective(dir, instEnv, world.InstanceOwner(id)); err != nil {
			return err
		}
	}
	return nil
}

// applyDirective installs one of a freshly-instantiated compound frame's
// content directives: a frame joins the live set scoped to the new
// instance, a bare event is enqueued, and a nested atomics declaration
// extends the vocabulary (spec.md §4.5 step 4's "recursively process the
// template's content").
func (e *Engine) applyDirective(dir ast.Directive, env unify.Env, owner world.Owner) error {
	switch d := dir.(type) {
	case *ast.FrameDirective:
		frame := instantiateFrame(env, d.Frame)
		if cf, ok := frame.(*ast.CompoundFrame); ok {
			e.RegisterTemplate(cf)
			return nil
		}
		_, err := e.store.AddFrame(owner, frame)
		return err

	case *ast.EventDirective:
		e.enqueue(instantiateEvent(env, d.Event), env, owner)
		return nil

	case *ast.AtomicsDecl:
		for _, n := range d.Names {
			e.store.DeclareAtomic(n)
		}
		return nil

	default:
		return nil
	}
}

func (e *Engine) applyMinus(ev *ast.Production, env unify.Env, owner world.Owner) error {
	if res, ok := ev.Object.(*ast.Reserved); ok && res.Word == ast.Self {
		if owner.Root {
			return dpclerr.New(dpclerr.RuntimeError, ev.Span(), "minus self used outside an instance")
		}
		e.store.DestroyInstance(owner.Instance)
		return nil
	}

	resolved, err := unify.ResolveRef(e.store, env, ev.Object)
	if err != nil {
		return dpclerr.Wrap(dpclerr.RuntimeError, ev.Span(), err, "minus of an unresolved reference")
	}

	if id, err := uuid.Parse(resolved); err == nil {
		if _, ok := e.store.Instance(id); ok {
			e.store.DestroyInstance(id)
			return nil
		}
	}
	if fh, ok := e.store.LookupFrame(owner, resolved); ok {
		return e.store.RemoveFrame(fh.Owner, fh.Alias)
	}
	if fh, ok := e.store.LookupFrame(world.RootOwner, resolved); ok {
		return e.store.RemoveFrame(fh.Owner, fh.Alias)
	}
	return dpclerr.New(dpclerr.RuntimeError, ev.Span(), "minus of non-live object %q", resolved)
}

func (e *Engine) applyNaming(ev *ast.Naming, env unify.Env) error {
	entity, err := unify.ResolveRef(e.store, env, ev.Entity)
	if err != nil {
		return err
	}
	descriptor, err := unify.ResolveRef(e.store, env, ev.Descriptor)
	if err != nil {
		return err
	}
	if ev.Gains {
		e.store.AssertHas(entity, descriptor)
	} else {
		e.store.RetractHas(entity, descriptor)
	}
	return nil
}
