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

package eval_test

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/eval"
	"github.com/mfleminks/dpcl/internal/loader"
	"github.com/mfleminks/dpcl/internal/query"
	"github.com/mfleminks/dpcl/internal/unify"
	"github.com/mfleminks/dpcl/internal/world"
)

// newLibrary loads testdata/library.json into a fresh engine, the fixture
// exercised by every scenario in spec.md §8.
func newLibrary(t *testing.T) *eval.Engine {
	t.Helper()
	raw, err := os.ReadFile("testdata/library.json")
	require.NoError(t, err)
	prog, err := loader.Load(raw, nil, nil)
	require.NoError(t, err)

	store := world.New(nil)
	eng := eval.NewEngine(store, eval.Config{})
	require.NoError(t, eval.Install(eng, prog))
	return eng
}

func request(agent string, action ast.Event) ast.Event {
	return &ast.ScopedEvent{Agent: &ast.Name{Value: agent}, Action: action}
}

func borrowAction(item string) ast.Event {
	return &ast.RefinedEvent{Tag: "borrow", Refinement: ast.Refinement{
		"item": ast.ObjectValue{Ref: &ast.Name{Value: item}},
	}}
}

func returnAction(item string) ast.Event {
	return &ast.RefinedEvent{Tag: "return", Refinement: ast.Refinement{
		"item": ast.ObjectValue{Ref: &ast.Name{Value: item}},
	}}
}

// Scenario 1: register.
func TestScenarioRegister(t *testing.T) {
	eng := newLibrary(t)
	err := eng.Dispatch(request("alice", &ast.AtomicEvent{Tag: "register"}), unify.NewEnv(), world.RootOwner)
	require.NoError(t, err)

	out, err := query.ShowName(eng.Store(), "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "has: student")
	assert.Contains(t, out, "has: member")
}

// Scenario 2: borrow, then return.
func TestScenarioBorrowAndReturn(t *testing.T) {
	eng := newLibrary(t)
	require.NoError(t, eng.Dispatch(request("alice", &ast.AtomicEvent{Tag: "register"}), unify.NewEnv(), world.RootOwner))
	require.NoError(t, eng.Dispatch(request("alice", borrowAction("dracula")), unify.NewEnv(), world.RootOwner))

	inst, ok := eng.Store().FindInstanceByTemplate("borrowing", map[string]string{
		"lender": "library", "borrower": "alice", "item": "dracula",
	})
	require.True(t, ok, "expected a live borrowing instance")

	require.NoError(t, eng.Dispatch(request("alice", returnAction("dracula")), unify.NewEnv(), world.RootOwner))
	_, ok = eng.Store().Instance(inst.ID)
	assert.False(t, ok, "borrowing instance should be destroyed after #return")
}

// Scenario 3: deadline and fine.
func TestScenarioDeadlineAndFine(t *testing.T) {
	eng := newLibrary(t)
	require.NoError(t, eng.Dispatch(request("alice", &ast.AtomicEvent{Tag: "register"}), unify.NewEnv(), world.RootOwner))
	require.NoError(t, eng.Dispatch(request("alice", borrowAction("dracula")), unify.NewEnv(), world.RootOwner))

	require.NoError(t, eng.Dispatch(&ast.AtomicEvent{Tag: "timeout"}, unify.NewEnv(), world.RootOwner))

	inst, ok := eng.Store().FindInstanceByTemplate("borrowing", map[string]string{
		"lender": "library", "borrower": "alice", "item": "dracula",
	})
	require.True(t, ok, "borrowing instance survives a violation")
	_, ok = eng.Store().LookupFrame(world.InstanceOwner(inst.ID), "d1")
	require.True(t, ok, "duty d1 survives a violation (it is not retired)")
	assert.True(t, eng.Store().HasRelation("d1", "violated"))

	fineAction := &ast.RefinedEvent{Tag: "fine", Refinement: ast.Refinement{
		"target": ast.ObjectValue{Ref: &ast.Name{Value: "alice"}},
	}}
	require.NoError(t, eng.Dispatch(request("library", fineAction), unify.NewEnv(), world.RootOwner))
	assert.True(t, eng.Store().HasRelation("alice", "fined"))
}

// Scenario 4: library requests early return.
func TestScenarioRequestReturn(t *testing.T) {
	eng := newLibrary(t)
	require.NoError(t, eng.Dispatch(request("alice", &ast.AtomicEvent{Tag: "register"}), unify.NewEnv(), world.RootOwner))
	require.NoError(t, eng.Dispatch(request("alice", borrowAction("dracula")), unify.NewEnv(), world.RootOwner))

	requestReturn := &ast.RefinedEvent{Tag: "request_return", Refinement: ast.Refinement{
		"item": ast.ObjectValue{Ref: &ast.Name{Value: "dracula"}},
	}}
	require.NoError(t, eng.Dispatch(request("library", requestReturn), unify.NewEnv(), world.RootOwner))

	_, ok := eng.Store().FindInstanceByTemplate("early_return", map[string]string{
		"borrower": "alice", "item": "dracula",
	})
	assert.True(t, ok, "expected a new early_return duty on alice")
}

// Scenario 5: unauthorized action is a silent no-op, never an error.
func TestScenarioUnauthorizedActionIsNoOp(t *testing.T) {
	eng := newLibrary(t)
	before := eng.Store().Stats()

	err := eng.Dispatch(request("bob", &ast.AtomicEvent{Tag: "register"}), unify.NewEnv(), world.RootOwner)
	require.NoError(t, err)

	after := eng.Store().Stats()
	assert.Equal(t, before, after)
	assert.False(t, eng.Store().HasRelation("bob", "member"))
}

// Scenario 6: registering twice is idempotent (has is a set).
func TestScenarioDoubleRegisterIsIdempotent(t *testing.T) {
	eng := newLibrary(t)
	require.NoError(t, eng.Dispatch(request("alice", &ast.AtomicEvent{Tag: "register"}), unify.NewEnv(), world.RootOwner))
	require.NoError(t, eng.Dispatch(request("alice", &ast.AtomicEvent{Tag: "register"}), unify.NewEnv(), world.RootOwner))

	assert.Equal(t, []string{"member"}, eng.Store().DescriptorsOf("alice")[1:])
	assert.Len(t, eng.Store().DescriptorsOf("alice"), 2) // student (preloaded) + member, never duplicated
}

// Determinism (testable property 1): replaying the same input sequence on
// two independently constructed engines yields identical observable state.
func TestDeterminismAcrossIndependentRuns(t *testing.T) {
	run := func() world.Stats {
		eng := newLibrary(t)
		require.NoError(t, eng.Dispatch(request("alice", &ast.AtomicEvent{Tag: "register"}), unify.NewEnv(), world.RootOwner))
		require.NoError(t, eng.Dispatch(request("alice", borrowAction("dracula")), unify.NewEnv(), world.RootOwner))
		require.NoError(t, eng.Dispatch(&ast.AtomicEvent{Tag: "timeout"}, unify.NewEnv(), world.RootOwner))
		return eng.Store().Stats()
	}
	a, b := run(), run()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("determinism violated (-run1 +run2):\n%s", diff)
	}
}

// Cascade overflow (testable property 5): a reactive rule that keeps
// re-triggering itself exceeds the step budget rather than looping forever.
func TestCascadeOverflowSurfacesAsError(t *testing.T) {
	store := world.New(nil)
	store.DeclareAtomic("a")
	store.DeclareAtomic("b")
	eng := eval.NewEngine(store, eval.Config{StepBudget: 5})
	_, err := store.AddFrame(world.RootOwner, &ast.ReactiveRule{
		Alias:        "ping",
		EventPattern: &ast.Naming{Entity: &ast.Name{Value: "a"}, Descriptor: &ast.Name{Value: "b"}, Gains: true},
		Reaction:     &ast.Naming{Entity: &ast.Name{Value: "a"}, Descriptor: &ast.Name{Value: "b"}, Gains: false},
	})
	require.NoError(t, err)
	_, err = store.AddFrame(world.RootOwner, &ast.ReactiveRule{
		Alias:        "pong",
		EventPattern: &ast.Naming{Entity: &ast.Name{Value: "a"}, Descriptor: &ast.Name{Value: "b"}, Gains: false},
		Reaction:     &ast.Naming{Entity: &ast.Name{Value: "a"}, Descriptor: &ast.Name{Value: "b"}, Gains: true},
	})
	require.NoError(t, err)

	err = eng.Dispatch(&ast.Naming{Entity: &ast.Name{Value: "a"}, Descriptor: &ast.Name{Value: "b"}, Gains: true}, unify.NewEnv(), world.RootOwner)
	require.Error(t, err)
}
