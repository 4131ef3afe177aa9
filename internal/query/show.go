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

// Package query implements the read-only `show` inspection API of
// spec.md §4.7: render the relations an entity participates in, or the
// live instance a refined reference names and the frames it owns.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/unify"
	"github.com/mfleminks/dpcl/internal/world"
)

// Show resolves ref against store and renders a human-readable report. It
// never mutates the store.
func Show(store *world.Store, ref ast.ObjectRef) (string, error) {
	resolved, err := unify.ResolveRef(store, unify.NewEnv(), ref)
	if err != nil {
		return "", err
	}
	return ShowName(store, resolved)
}

// ShowName renders a report for an already-resolved name: an atomic
// entity, a live instance id, or (failing both) a frame alias at root
// scope.
func ShowName(store *world.Store, resolved string) (string, error) {
	if store.IsAtomic(resolved) {
		return showEntity(store, resolved), nil
	}
	if id, err := uuid.Parse(resolved); err == nil {
		if inst, ok := store.Instance(id); ok {
			return showInstance(store, inst), nil
		}
	}
	if fh, ok := store.LookupFrame(world.RootOwner, resolved); ok {
		return showFrame(fh), nil
	}
	return showEntity(store, resolved), nil
}

func showEntity(store *world.Store, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", name)
	fmt.Fprintf(&b, "  atomic: %t\n", store.IsAtomic(name))
	descriptors := store.DescriptorsOf(name)
	if len(descriptors) == 0 {
		b.WriteString("  has: (none)\n")
		return b.String()
	}
	sorted := append([]string{}, descriptors...)
	sort.Strings(sorted)
	for _, d := range sorted {
		fmt.Fprintf(&b, "  has: %s\n", d)
	}
	return b.String()
}

func showInstance(store *world.Store, inst *world.Instance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (instance of %s)\n", inst.ID, inst.Template)

	params := make([]string, 0, len(inst.Bindings))
	for p := range inst.Bindings {
		params = append(params, p)
	}
	sort.Strings(params)
	for _, p := range params {
		fmt.Fprintf(&b, "  %s = %s\n", p, inst.Bindings[p])
	}

	var aliases []string
	for _, fh := range store.LiveFrames() {
		if fh.Owner.Root || fh.Owner.Instance != inst.ID {
			continue
		}
		aliases = append(aliases, fh.Alias)
	}
	sort.Strings(aliases)
	if len(aliases) == 0 {
		b.WriteString("  frames: (none)\n")
		return b.String()
	}
	for _, a := range aliases {
		fmt.Fprintf(&b, "  frame: %s\n", a)
	}
	return b.String()
}

func showFrame(fh *world.FrameHandle) string {
	return fmt.Sprintf("%s (frame, owner: %s)\n", fh.Alias, fh.Owner)
}
