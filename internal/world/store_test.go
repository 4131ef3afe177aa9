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

package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/world"
)

func TestAssertHasIsIdempotent(t *testing.T) {
	s := world.New(nil)
	s.AssertHas("alice", "student")
	s.AssertHas("alice", "student")
	assert.Equal(t, []string{"student"}, s.DescriptorsOf("alice"))
	assert.Equal(t, 1, s.Stats().HasPairs)
}

func TestRetractHasOnMissingRelationIsNoOp(t *testing.T) {
	s := world.New(nil)
	s.RetractHas("alice", "student") // must not panic
	assert.False(t, s.HasRelation("alice", "student"))
}

func TestRetractHasRemovesOnlyTheGivenPair(t *testing.T) {
	s := world.New(nil)
	s.AssertHas("alice", "student")
	s.AssertHas("alice", "member")
	s.RetractHas("alice", "student")
	assert.False(t, s.HasRelation("alice", "student"))
	assert.True(t, s.HasRelation("alice", "member"))
	assert.Equal(t, []string{"member"}, s.DescriptorsOf("alice"))
}

func TestAddFrameRejectsDuplicateAliasInSameScope(t *testing.T) {
	s := world.New(nil)
	f1 := &ast.PowerFrame{Alias: "p1", Holder: &ast.Wildcard{}, Action: &ast.AtomicEvent{Tag: "a"}, Consequence: &ast.AtomicEvent{Tag: "b"}}
	f2 := &ast.PowerFrame{Alias: "p1", Holder: &ast.Wildcard{}, Action: &ast.AtomicEvent{Tag: "c"}, Consequence: &ast.AtomicEvent{Tag: "d"}}

	_, err := s.AddFrame(world.RootOwner, f1)
	require.NoError(t, err)
	_, err = s.AddFrame(world.RootOwner, f2)
	assert.Error(t, err)
}

func TestAddFrameAllowsSameAliasInDifferentScopes(t *testing.T) {
	s := world.New(nil)
	id := s.CreateInstance("tmpl", map[string]string{}, world.RootOwner)
	f1 := &ast.PowerFrame{Alias: "p1", Holder: &ast.Wildcard{}, Action: &ast.AtomicEvent{Tag: "a"}, Consequence: &ast.AtomicEvent{Tag: "b"}}
	f2 := &ast.PowerFrame{Alias: "p1", Holder: &ast.Wildcard{}, Action: &ast.AtomicEvent{Tag: "c"}, Consequence: &ast.AtomicEvent{Tag: "d"}}

	_, err := s.AddFrame(world.RootOwner, f1)
	require.NoError(t, err)
	_, err = s.AddFrame(world.InstanceOwner(id), f2)
	assert.NoError(t, err)
}

func TestDestroyInstanceCascadesToChildrenAndOwnedFrames(t *testing.T) {
	s := world.New(nil)
	parent := s.CreateInstance("outer", map[string]string{}, world.RootOwner)
	child := s.CreateInstance("inner", map[string]string{}, world.InstanceOwner(parent))
	_, err := s.AddFrame(world.InstanceOwner(child), &ast.PowerFrame{
		Alias: "nested", Holder: &ast.Wildcard{}, Action: &ast.AtomicEvent{Tag: "a"}, Consequence: &ast.AtomicEvent{Tag: "b"},
	})
	require.NoError(t, err)

	removed := s.DestroyInstance(parent)
	assert.Contains(t, removed, "nested")
	_, ok := s.Instance(parent)
	assert.False(t, ok)
	_, ok = s.Instance(child)
	assert.False(t, ok)
}

func TestSnapshotRestoreRoundTrips(t *testing.T) {
	s := world.New(nil)
	s.DeclareAtomic("alice")
	s.AssertHas("alice", "student")
	snap := s.Snapshot()

	s.AssertHas("alice", "fined")
	id := s.CreateInstance("borrowing", map[string]string{"item": "dracula"}, world.RootOwner)

	s.Restore(snap)

	assert.False(t, s.HasRelation("alice", "fined"))
	assert.True(t, s.HasRelation("alice", "student"))
	_, ok := s.Instance(id)
	assert.False(t, ok, "instance created after the snapshot must not survive a restore")
}

func TestFindInstanceByTemplateMatchesExactBindings(t *testing.T) {
	s := world.New(nil)
	s.CreateInstance("borrowing", map[string]string{"item": "dracula", "borrower": "alice"}, world.RootOwner)

	_, ok := s.FindInstanceByTemplate("borrowing", map[string]string{"item": "dracula", "borrower": "alice"})
	assert.True(t, ok)

	_, ok = s.FindInstanceByTemplate("borrowing", map[string]string{"item": "moby_dick", "borrower": "alice"})
	assert.False(t, ok)
}
