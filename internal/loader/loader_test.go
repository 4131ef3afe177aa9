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

package loader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/dpclerr"
	"github.com/mfleminks/dpcl/internal/loader"
)

func TestLoadAtomicsAndPowerFrame(t *testing.T) {
	raw := `[
		{"kind": "atomics", "names": ["alice", "student"]},
		{"kind": "power_frame", "alias": "p1", "position": "power",
		 "holder": "student", "action": "#register",
		 "consequence": {"entity": "holder", "descriptor": "member", "gains": true}}
	]`
	prog, err := loader.Load([]byte(raw), nil, nil)
	require.NoError(t, err)
	require.Len(t, prog.Directives, 2)

	decl, ok := prog.Directives[0].(*ast.AtomicsDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"alice", "student"}, decl.Names)
}

func TestLoadRejectsReservedAlias(t *testing.T) {
	raw := `[{"kind": "atomics", "names": ["self"]}]`
	_, err := loader.Load([]byte(raw), nil, nil)
	require.Error(t, err)
	assert.True(t, dpclerr.Is(err, dpclerr.NameError))
}

func TestLoadRejectsDuplicateAlias(t *testing.T) {
	raw := `[
		{"kind": "power_frame", "alias": "p1", "position": "power", "holder": "*", "action": "#a", "consequence": "#b"},
		{"kind": "power_frame", "alias": "p1", "position": "power", "holder": "*", "action": "#c", "consequence": "#d"}
	]`
	_, err := loader.Load([]byte(raw), nil, nil)
	require.Error(t, err)
	assert.True(t, dpclerr.Is(err, dpclerr.NameError))
}

func TestLoadRejectsUnknownDirectiveKind(t *testing.T) {
	raw := `[{"kind": "not_a_real_directive"}]`
	_, err := loader.Load([]byte(raw), nil, nil)
	require.Error(t, err)
	assert.True(t, dpclerr.Is(err, dpclerr.SchemaError))
}

// spec.md §9, Open Question 1: a reactive rule without an `event` field is
// rejected as a schema_error rather than silently meaning "fire on every
// event".
func TestLoadRejectsReactiveRuleWithoutEvent(t *testing.T) {
	raw := `[{"kind": "reactive_rule", "alias": "r1", "reaction": "#noop"}]`
	_, err := loader.Load([]byte(raw), nil, nil)
	require.Error(t, err)
	assert.True(t, dpclerr.Is(err, dpclerr.SchemaError))
}

func TestLoadAllowsForwardReferenceToCompoundFrame(t *testing.T) {
	raw := `[
		{"kind": "power_frame", "alias": "p1", "position": "power", "holder": "*",
		 "action": "#lend",
		 "consequence": {"plus": {"object": "borrowing", "refinement": {"item": "alice"}}}},
		{"kind": "compound_frame", "object": "borrowing", "params": ["item"], "content": []}
	]`
	prog, err := loader.Load([]byte(raw), nil, nil)
	require.NoError(t, err)
	_, ok := prog.Templates["borrowing"]
	assert.True(t, ok, "compound frame declared later in the list should still be registered as a template")
}

// spec.md §4.2: a naming event at the top level must reference a declared
// atomic, not an undeclared bare name — forward references between
// siblings (TestLoadAllowsForwardReferenceToCompoundFrame) are fine, but an
// outright typo or missing declaration is not.
func TestLoadRejectsUnknownTopLevelReference(t *testing.T) {
	raw := `[
		{"kind": "atomics", "names": ["alice"]},
		{"kind": "event", "event": {"entity": "alice", "descriptor": "nonexistent_descriptor", "gains": true}}
	]`
	_, err := loader.Load([]byte(raw), nil, nil)
	require.Error(t, err)
	assert.True(t, dpclerr.Is(err, dpclerr.NameError))
}

func TestLoadImportResolvesAgainstFileSystem(t *testing.T) {
	fs := loader.MapFileSystem{
		"rules.json": []byte(`[{"kind": "atomics", "names": ["imported_entity"]}]`),
	}
	raw := `[{"kind": "import", "name": "rules.json"}]`
	prog, err := loader.Load([]byte(raw), fs, nil)
	require.NoError(t, err)
	require.Len(t, prog.Directives, 1)
	decl, ok := prog.Directives[0].(*ast.AtomicsDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"imported_entity"}, decl.Names)
}

func TestLoadImportMissingFileIsIOError(t *testing.T) {
	raw := `[{"kind": "import", "name": "missing.json"}]`
	_, err := loader.Load([]byte(raw), loader.MapFileSystem{}, nil)
	require.Error(t, err)
	assert.True(t, dpclerr.Is(err, dpclerr.IOError))
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := loader.Load([]byte(`not json`), nil, nil)
	require.Error(t, err)
	assert.True(t, dpclerr.Is(err, dpclerr.SchemaError))
}

func TestDecodeEventAndRefForShellInput(t *testing.T) {
	ev, err := loader.DecodeEvent(map[string]interface{}{
		"agent":  "alice",
		"action": "#register",
	})
	require.NoError(t, err)
	se, ok := ev.(*ast.ScopedEvent)
	require.True(t, ok)
	agentName, ok := se.Agent.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "alice", agentName.Value)

	ref, err := loader.DecodeRef("alice")
	require.NoError(t, err)
	n, ok := ref.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "alice", n.Value)
}
