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

// Package eval drives the cascade described in spec.md §4.5: a
// single-threaded, work-queue-based dispatch of events through power
// matching, reactive-rule matching, application, transformational
// fixpoint, and deontic trigger checks, repeated until the queue is empty.
package eval

import (
	"github.com/hashicorp/go-hclog"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/dpclerr"
	"github.com/mfleminks/dpcl/internal/token"
	"github.com/mfleminks/dpcl/internal/unify"
	"github.com/mfleminks/dpcl/internal/world"
)

// DefaultStepBudget bounds total event dispatches per Dispatch call, per
// spec.md §4.5's termination safety net.
const DefaultStepBudget = 10000

// Config configures a new Engine.
type Config struct {
	Logger     hclog.Logger
	StepBudget int
}

// Engine is the cascade driver. It owns no state beyond its work queue, its
// compound-frame template table, and a reference to the world.Store it
// mutates; the store itself is exclusive
// to one Engine for the duration of a cascade (spec.md §5).
type Engine struct {
	store      *world.Store
	log        hclog.Logger
	stepBudget int
	templates  map[string]*ast.CompoundFrame

	queue []queueItem
}

type queueItem struct {
	Event ast.Event
	Env   unify.Env
	Owner world.Owner
}

// NewEngine constructs an Engine bound to store.
func NewEngine(store *world.Store, cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	budget := cfg.StepBudget
	if budget <= 0 {
		budget = DefaultStepBudget
	}
	return &Engine{
		store:      store,
		log:        log.Named("eval"),
		stepBudget: budget,
		templates:  make(map[string]*ast.CompoundFrame),
	}
}

// RegisterTemplate makes a compound frame available for instantiation by
// `plus` production events naming it (spec.md §4.2: templates are not
// executed at load time; they are instantiated on demand).
func (e *Engine) RegisterTemplate(cf *ast.CompoundFrame) {
	e.templates[cf.Object] = cf
}

// Store returns the engine's world store, for callers (the shell, tests)
// that need read access outside a cascade.
func (e *Engine) Store() *world.Store { return e.store }

// Dispatch enqueues ev (bound under env, owned by owner) and drains the
// cascade to fixpoint. A root-level external event should be dispatched
// with unify.NewEnv() and world.RootOwner.
func (e *Engine) Dispatch(ev ast.Event, env unify.Env, owner world.Owner) error {
	e.queue = append(e.queue, queueItem{Event: ev, Env: env, Owner: owner})
	steps := 0
	for len(e.queue) > 0 {
		steps++
		if steps > e.stepBudget {
			e.queue = nil
			return dpclerr.New(dpclerr.CascadeOverflow, token.None,
				"cascade exceeded step budget of %d", e.stepBudget)
		}
		item := e.queue[0]
		e.queue = e.queue[1:]

		snap := e.store.Snapshot()
		if err := e.processOne(item); err != nil {
			e.store.Restore(snap)
			e.queue = nil
			return err
		}
	}
	return nil
}

// enqueue appends to the tail of the work queue, preserving load-order
// within one event's dispatch (spec.md §4.5 step 2/3 and §5's ordering
// guarantee: power consequences before reactive reactions, both before the
// next popped event).
func (e *Engine) enqueue(ev ast.Event, env unify.Env, owner world.Owner) {
	e.queue = append(e.queue, queueItem{Event: ev, Env: env, Owner: owner})
}

func (e *Engine) processOne(item queueItem) error {
	e.log.Trace("pop", "event", describeEvent(item.Event))

	e.matchPowers(item)
	e.matchReactive(item)

	if err := e.apply(item); err != nil {
		return err
	}

	if err := e.runTransformationalFixpoint(); err != nil {
		return err
	}

	e.checkTriggers(item.Event)
	return nil
}

func (e *Engine) matchPowers(item queueItem) {
	se, ok := item.Event.(*ast.ScopedEvent)
	if !ok {
		return
	}
	agent, err := unify.ResolveRef(e.store, item.Env, se.Agent)
	if err != nil {
		return
	}
	for _, fh := range e.store.LiveFrames() {
		pf, ok := fh.Frame.(*ast.PowerFrame)
		if !ok {
			continue
		}
		base := baseEnv(fh.Owner, e.store)
		env, matched, err := unify.MatchPower(e.store, base, pf, fh.PatternParams, agent, se.Action)
		if err != nil || !matched {
			continue
		}
		e.log.Trace("power matched", "alias", fh.Alias, "agent", agent)
		consequence := instantiateEvent(env, pf.Consequence)
		e.enqueue(consequence, env, fh.Owner)
	}
}

func (e *Engine) matchReactive(item queueItem) {
	for _, fh := range e.store.LiveFrames() {
		rr, ok := fh.Frame.(*ast.ReactiveRule)
		if !ok {
			continue
		}
		base := baseEnv(fh.Owner, e.store)
		env, matched := unify.MatchReactive(e.store, base, rr, fh.PatternParams, item.Event)
		if !matched {
			continue
		}
		e.log.Trace("reactive matched", "alias", fh.Alias)
		reaction := instantiateEvent(env, rr.Reaction)
		e.enqueue(reaction, env, fh.Owner)
	}
}

// baseEnv builds the binding environment a frame sees at match time: self
// bound to its owning instance (and that instance's own parameter
// bindings available by name), or nothing extra at root scope.
func baseEnv(owner world.Owner, store *world.Store) unify.Env {
	env := unify.NewEnv()
	if owner.Root {
		return env
	}
	inst, ok := store.Instance(owner.Instance)
	if !ok {
		return env
	}
	env = env.BindObject(string(ast.Self), inst.ID.String())
	for param, value := range inst.Bindings {
		env = env.BindObject(param, value)
	}
	return env
}

func describeEvent(ev ast.Event) string {
	switch e := ev.(type) {
	case *ast.AtomicEvent:
		return "#" + e.Tag
	case *ast.RefinedEvent:
		return "#" + e.Tag + "{refined}"
	case *ast.ScopedEvent:
		return "scoped"
	case *ast.Production:
		if e.Op == ast.Plus {
			return "plus"
		}
		return "minus"
	case *ast.Naming:
		return "naming"
	default:
		return "?"
	}
}
