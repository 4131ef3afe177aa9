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
	"github.com/mfleminks/dpcl/internal/cond"
	"github.com/mfleminks/dpcl/internal/unify"
)

// runTransformationalFixpoint implements spec.md §4.5 step 5: run every
// live transformational rule once; if any rule's conclusion changes the
// world, repeat until a full pass makes no change. applyConclusion only
// ever adds relations, so rules are monotone (spec.md §3) and this always
// terminates.
func (e *Engine) runTransformationalFixpoint() error {
	for {
		changed := false
		for _, fh := range e.store.LiveFrames() {
			tr, ok := fh.Frame.(*ast.TransformationalRule)
			if !ok {
				continue
			}
			base := baseEnv(fh.Owner, e.store)
			if !cond.Eval(e.store, base, tr.Condition) {
				continue
			}
			did, err := e.applyConclusion(tr.Conclusion, base)
			if err != nil {
				return err
			}
			if did {
				e.log.Trace("transformational fired", "alias", fh.Alias)
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

// applyConclusion asserts a transformational rule's conclusion. Only a
// naming conclusion that gains a relation is applied (it adds the
// relation). A naming conclusion with gains false, and every other event
// kind, cannot express a monotone world change and is ignored here rather
// than enqueued (enqueuing a non-monotone conclusion on every pass of a
// fixpoint loop would never converge); the loader does not reject such
// conclusions.
func (e *Engine) applyConclusion(ev ast.Event, env unify.Env) (bool, error) {
	naming, ok := ev.(*ast.Naming)
	if !ok || !naming.Gains {
		return false, nil
	}
	entity, err := unify.ResolveRef(e.store, env, naming.Entity)
	if err != nil {
		return false, err
	}
	descriptor, err := unify.ResolveRef(e.store, env, naming.Descriptor)
	if err != nil {
		return false, err
	}
	if e.store.HasRelation(entity, descriptor) {
		return false, nil
	}
	e.store.AssertHas(entity, descriptor)
	return true, nil
}
