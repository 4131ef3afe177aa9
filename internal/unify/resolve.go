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
	"github.com/google/uuid"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/dpclerr"
	"github.com/mfleminks/dpcl/internal/world"
)

// ResolveRef resolves an object reference to an entity name (an atomic
// name or an instance id), per spec.md §3/§4.4. A bare name resolves to
// its binding in env, or else to itself, without checking that it names a
// declared atomic or a live instance; refined and scoped references
// resolve only to live instances. Wildcard cannot be resolved to a single entity and is
// rejected; callers that accept a wildcard (e.g. holder matching) must
// special-case *ast.Wildcard before calling ResolveRef.
func ResolveRef(store *world.Store, env Env, ref ast.ObjectRef) (string, error) {
	switch r := ref.(type) {
	case *ast.Name:
		if bound, ok := env.Lookup(r.Value); ok {
			return bound, nil
		}
		return r.Value, nil

	case *ast.Reserved:
		switch r.Word {
		case ast.Self, ast.Holder, ast.Super:
			if bound, ok := env.Lookup(string(r.Word)); ok {
				return bound, nil
			}
			return "", dpclerr.New(dpclerr.RuntimeError, r.Pos, "%s used outside a binding context", r.Word)
		default:
			return "", dpclerr.New(dpclerr.RuntimeError, r.Pos, "unknown reserved word %q", r.Word)
		}

	case *ast.Wildcard:
		return "", dpclerr.New(dpclerr.RuntimeError, r.Pos, "wildcard cannot resolve to a single entity")

	case *ast.Refined:
		tmplName, err := templateName(r.Object)
		if err != nil {
			return "", err
		}
		bindings := map[string]string{}
		for key, val := range r.Refinement {
			ov, ok := val.(ast.ObjectValue)
			if !ok {
				continue // event-valued refinement entries don't constrain instance bindings
			}
			resolved, err := ResolveRef(store, env, ov.Ref)
			if err != nil {
				return "", err
			}
			bindings[key] = resolved
		}
		inst, ok := store.FindInstanceByTemplate(tmplName, bindings)
		if !ok {
			return "", dpclerr.New(dpclerr.NameError, r.Pos, "no live %s instance matches refinement", tmplName)
		}
		return inst.ID.String(), nil

	case *ast.Scoped:
		scopeName, err := ResolveRef(store, env, r.Scope)
		if err != nil {
			return "", err
		}
		inst, ok := instanceByID(store, scopeName)
		if !ok {
			return "", dpclerr.New(dpclerr.NameError, r.Pos, "scope %q is not a live instance", scopeName)
		}
		for _, childID := range inst.Children {
			child, ok := store.Instance(childID)
			if ok && child.Template == r.Name {
				return child.ID.String(), nil
			}
		}
		return "", dpclerr.New(dpclerr.NameError, r.Pos, "scope %q has no child named %q", scopeName, r.Name)

	default:
		return "", dpclerr.New(dpclerr.RuntimeError, ref.Span(), "unrecognized object reference")
	}
}

func templateName(ref ast.ObjectRef) (string, error) {
	if n, ok := ref.(*ast.Name); ok {
		return n.Value, nil
	}
	return "", dpclerr.New(dpclerr.NameError, ref.Span(), "refined object must name a template")
}

func instanceByID(store *world.Store, id string) (*world.Instance, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	return store.Instance(parsed)
}
