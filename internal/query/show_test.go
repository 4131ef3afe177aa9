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

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/query"
	"github.com/mfleminks/dpcl/internal/world"
)

func TestShowEntityListsDescriptors(t *testing.T) {
	s := world.New(nil)
	s.DeclareAtomic("alice")
	s.DeclareAtomic("student")
	s.DeclareAtomic("member")
	s.AssertHas("alice", "student")
	s.AssertHas("alice", "member")

	out, err := query.Show(s, &ast.Name{Value: "alice"})
	require.NoError(t, err)
	assert.Contains(t, out, "atomic: true")
	assert.Contains(t, out, "has: student")
	assert.Contains(t, out, "has: member")
}

func TestShowInstanceListsBindingsAndFrames(t *testing.T) {
	s := world.New(nil)
	s.DeclareAtomic("library")
	s.DeclareAtomic("alice")
	s.DeclareAtomic("dracula")

	id := s.CreateInstance("borrowing", map[string]string{
		"lender":   "library",
		"borrower": "alice",
		"item":     "dracula",
	}, world.RootOwner)
	_, err := s.AddFrame(world.InstanceOwner(id), &ast.DeonticFrame{Alias: "d1"})
	require.NoError(t, err)

	out, err := query.ShowName(s, id.String())
	require.NoError(t, err)
	assert.Contains(t, out, "instance of borrowing")
	assert.Contains(t, out, "lender = library")
	assert.Contains(t, out, "frame: d1")
}

func TestShowUnknownNameStillRenders(t *testing.T) {
	s := world.New(nil)
	out, err := query.ShowName(s, "ghost")
	require.NoError(t, err)
	assert.Contains(t, out, "atomic: false")
	assert.Contains(t, out, "(none)")
}
