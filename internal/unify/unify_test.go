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

package unify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/unify"
	"github.com/mfleminks/dpcl/internal/world"
)

func name(v string) *ast.Name { return &ast.Name{Value: v} }

func TestMatchPowerHolderByDescriptor(t *testing.T) {
	s := world.New(nil)
	s.DeclareAtomic("alice")
	s.DeclareAtomic("bob")
	s.DeclareAtomic("student")
	s.AssertHas("alice", "student")

	frame := &ast.PowerFrame{
		Holder:      name("student"),
		Action:      &ast.AtomicEvent{Tag: "register"},
		Consequence: &ast.Naming{Entity: &ast.Reserved{Word: ast.Holder}, Descriptor: name("member"), Gains: true},
	}

	env, ok, err := unify.MatchPower(s, unify.NewEnv(), frame, nil, "alice", &ast.AtomicEvent{Tag: "register"})
	require.NoError(t, err)
	assert.True(t, ok)
	holder, bound := env.Lookup(string(ast.Holder))
	assert.True(t, bound)
	assert.Equal(t, "alice", holder)

	_, ok, err = unify.MatchPower(s, unify.NewEnv(), frame, nil, "bob", &ast.AtomicEvent{Tag: "register"})
	require.NoError(t, err)
	assert.False(t, ok, "bob lacks the student descriptor and should not match")
}

func TestMatchPowerRefinementBindsFreshParam(t *testing.T) {
	s := world.New(nil)
	s.DeclareAtomic("library")
	s.DeclareAtomic("alice")
	s.DeclareAtomic("dracula")

	frame := &ast.PowerFrame{
		Holder: name("library"),
		Action: &ast.RefinedEvent{
			Tag: "fine",
			Refinement: ast.Refinement{
				"target": ast.ObjectValue{Ref: name("Target")},
			},
		},
		Consequence: &ast.Naming{Entity: name("Target"), Descriptor: name("fined"), Gains: true},
	}

	request := &ast.RefinedEvent{
		Tag: "fine",
		Refinement: ast.Refinement{
			"target": ast.ObjectValue{Ref: name("alice")},
		},
	}

	params := map[string]bool{"Target": true}
	env, ok, err := unify.MatchPower(s, unify.NewEnv(), frame, params, "library", request)
	require.NoError(t, err)
	require.True(t, ok)
	bound, found := env.Lookup("Target")
	require.True(t, found)
	assert.Equal(t, "alice", bound)
}

func TestMatchPowerWildcardHolder(t *testing.T) {
	s := world.New(nil)
	s.DeclareAtomic("anyone")
	frame := &ast.PowerFrame{
		Holder:      &ast.Wildcard{},
		Action:      &ast.AtomicEvent{Tag: "timeout"},
		Consequence: &ast.AtomicEvent{Tag: "timeout"},
	}
	_, ok, err := unify.MatchPower(s, unify.NewEnv(), frame, nil, "anyone", &ast.AtomicEvent{Tag: "timeout"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnifyEventTagMismatch(t *testing.T) {
	s := world.New(nil)
	_, ok := unify.UnifyEvent(s, unify.NewEnv(), &ast.AtomicEvent{Tag: "borrow"}, &ast.AtomicEvent{Tag: "return"})
	assert.False(t, ok)
}

func TestResolveRefReservedOutsideBindingIsError(t *testing.T) {
	s := world.New(nil)
	_, err := unify.ResolveRef(s, unify.NewEnv(), &ast.Reserved{Word: ast.Self})
	assert.Error(t, err)
}
