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

// Package cond evaluates the boolean-condition sublanguage of spec.md §4.6:
// has-conditions, negation, reference-existence, and the literals, against
// a world.Store and the unify.Env accumulated for the enclosing frame.
package cond

import (
	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/unify"
	"github.com/mfleminks/dpcl/internal/world"
)

// Eval evaluates expr against store under env. A reference that fails to
// resolve (e.g. names a since-destroyed instance) makes a has-condition
// false and a ref-exists condition false, rather than propagating an error;
// conditions are total functions to bool (spec.md §4.6).
func Eval(store *world.Store, env unify.Env, expr ast.BoolExpr) bool {
	switch e := expr.(type) {
	case *ast.BoolLiteral:
		return e.Value

	case *ast.Negate:
		return !Eval(store, env, e.Expr)

	case *ast.HasCondition:
		entity, err := unify.ResolveRef(store, env, e.Entity)
		if err != nil {
			return false
		}
		descriptor, err := unify.ResolveRef(store, env, e.Descriptor)
		if err != nil {
			return false
		}
		return store.HasRelation(entity, descriptor) == e.Has

	case *ast.RefExists:
		resolved, err := unify.ResolveRef(store, env, e.Ref)
		if err != nil {
			return false
		}
		return store.IsLive(resolved)

	default:
		return false
	}
}
