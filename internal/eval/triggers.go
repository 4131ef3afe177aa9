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
	"github.com/mfleminks/dpcl/internal/world"
)

// checkTriggers implements spec.md §4.5 step 6: every live deontic frame's
// violation/fulfillment/termination triggers are (re)checked after the
// event just processed and the transformational fixpoint. Fulfillment or
// termination retires the duty (first to fire wins); violation never
// does, and instead enqueues a synthetic "violated" marker.
func (e *Engine) checkTriggers(observed ast.Event) {
	// RemoveFrame below mutates the store's live-frame slice in place; range
	// over a snapshot so retiring one duty can't skip or re-read another
	// frame sharing the same backing array.
	live := append([]*world.FrameHandle(nil), e.store.LiveFrames()...)
	for _, fh := range live {
		df, ok := fh.Frame.(*ast.DeonticFrame)
		if !ok {
			continue
		}
		base := baseEnv(fh.Owner, e.store)

		if e.triggerFires(fh, "violation", df.Violation, observed, base) {
			e.log.Trace("violation", "alias", fh.Alias)
			e.enqueue(violationMarker(fh.Alias), unify.NewEnv(), fh.Owner)
		}

		fulfilled := e.triggerFires(fh, "fulfillment", df.Fulfillment, observed, base)
		terminated := e.triggerFires(fh, "termination", df.Termination, observed, base)
		if fulfilled || terminated {
			e.log.Trace("duty retired", "alias", fh.Alias, "fulfilled", fulfilled, "terminated", terminated)
			if err := e.store.RemoveFrame(fh.Owner, fh.Alias); err != nil {
				e.log.Warn("duty retirement failed", "alias", fh.Alias, "error", err)
			}
		}
	}
}

func (e *Engine) triggerFires(fh *world.FrameHandle, key string, t ast.Trigger, observed ast.Event, base unify.Env) bool {
	if t.IsZero() {
		return false
	}
	if t.EventPattern != nil {
		env := base.Clone()
		for p := range fh.PatternParams {
			env.Params[p] = true
		}
		_, matched := unify.UnifyEvent(e.store, env, t.EventPattern, observed)
		return matched
	}

	current := cond.Eval(e.store, base, t.BoolExpr)
	prev := fh.TriggerState[key]
	fh.TriggerState[key] = current
	return current && !prev
}
