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

// Package world is the sole mutable state of a DPCL interpretation
// (spec.md §4.3): the declared atomics, the `has` relation, the live
// instance arena, and the live frame set. It is owned exclusively by the
// evaluator for the duration of one cascade (spec.md §5).
package world

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/dpclerr"
	"github.com/mfleminks/dpcl/internal/token"
)

// InstanceID identifies a live compound-frame instance.
type InstanceID = uuid.UUID

// Owner is either the root program scope or a live instance.
type Owner struct {
	Root     bool
	Instance InstanceID
}

// RootOwner is the owner of statically declared, top-level frames.
var RootOwner = Owner{Root: true}

// InstanceOwner wraps an instance id as an Owner.
func InstanceOwner(id InstanceID) Owner { return Owner{Instance: id} }

func (o Owner) String() string {
	if o.Root {
		return "root"
	}
	return o.Instance.String()
}

// Instance is a live creation of a compound-frame template.
type Instance struct {
	ID       InstanceID
	Template string
	Bindings map[string]string // param name -> resolved entity name
	Parent   Owner
	Children []InstanceID
}

// FrameHandle is a live frame together with its owning scope.
type FrameHandle struct {
	Alias string
	Frame ast.Frame
	Owner Owner
	// PatternParams names the frame-local pattern variables appearing in
	// the frame's action (or a reactive rule's event pattern) — bare
	// names bound the first time matching encounters them, distinct from
	// an enclosing compound instance's own parameters (spec.md §4.4).
	PatternParams map[string]bool
	// TriggerState records the last-observed value of a deontic frame's
	// boolean-shaped triggers, so violation can be fired edge-triggered
	// on the false-to-true transition (spec.md §9, Open Question 3).
	TriggerState map[string]bool
}

type hasPair struct {
	Entity     string
	Descriptor string
}

// Store holds all mutable institutional state. It is not safe for
// concurrent use (spec.md §5: single-threaded cooperative evaluation).
type Store struct {
	log hclog.Logger

	atomics map[string]bool
	has     map[hasPair]bool
	order   []hasPair // load/assertion order, for DescriptorsOf

	instances map[InstanceID]*Instance

	frames      []*FrameHandle
	framesByID  map[string]*FrameHandle
}

// New creates an empty Store.
func New(log hclog.Logger) *Store {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Store{
		log:        log.Named("world"),
		atomics:    make(map[string]bool),
		has:        make(map[hasPair]bool),
		instances:  make(map[InstanceID]*Instance),
		framesByID: make(map[string]*FrameHandle),
	}
}

// DeclareAtomic registers a new atomic entity name. Re-declaring an
// existing atomic is a no-op (set semantics).
func (s *Store) DeclareAtomic(name string) {
	if s.atomics[name] {
		return
	}
	s.atomics[name] = true
	s.log.Trace("atomic+", "name", name)
}

// IsAtomic reports whether name was declared via an atomics directive.
func (s *Store) IsAtomic(name string) bool { return s.atomics[name] }

// IsLive reports whether ref names a declared atomic or a live instance.
func (s *Store) IsLive(ref string) bool {
	if s.atomics[ref] {
		return true
	}
	if id, err := uuid.Parse(ref); err == nil {
		_, ok := s.instances[id]
		return ok
	}
	return false
}

// AssertHas adds the (entity, descriptor) relation. Adding an existing
// relation is a no-op (spec.md §3 invariant).
func (s *Store) AssertHas(entity, descriptor string) {
	p := hasPair{entity, descriptor}
	if s.has[p] {
		return
	}
	s.has[p] = true
	s.order = append(s.order, p)
	s.log.Trace("has+", "entity", entity, "descriptor", descriptor)
}

// RetractHas removes the (entity, descriptor) relation. Removing a missing
// relation is a no-op.
func (s *Store) RetractHas(entity, descriptor string) {
	p := hasPair{entity, descriptor}
	if !s.has[p] {
		return
	}
	delete(s.has, p)
	for i, o := range s.order {
		if o == p {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.log.Trace("has-", "entity", entity, "descriptor", descriptor)
}

// HasRelation reports whether (entity, descriptor) currently holds.
func (s *Store) HasRelation(entity, descriptor string) bool {
	return s.has[hasPair{entity, descriptor}]
}

// DescriptorsOf returns, in assertion order, every descriptor entity holds.
func (s *Store) DescriptorsOf(entity string) []string {
	var out []string
	for _, p := range s.order {
		if p.Entity == entity {
			out = append(out, p.Descriptor)
		}
	}
	return out
}

// CreateInstance allocates a fresh instance of template with the given
// parameter bindings, owned by parent.
func (s *Store) CreateInstance(template string, bindings map[string]string, parent Owner) InstanceID {
	id := uuid.New()
	inst := &Instance{
		ID:       id,
		Template: template,
		Bindings: bindings,
		Parent:   parent,
	}
	s.instances[id] = inst
	if !parent.Root {
		if p, ok := s.instances[parent.Instance]; ok {
			p.Children = append(p.Children, id)
		}
	}
	s.log.Trace("instance+", "id", id, "template", template)
	return id
}

// Instance looks up a live instance by id.
func (s *Store) Instance(id InstanceID) (*Instance, bool) {
	inst, ok := s.instances[id]
	return inst, ok
}

// FindInstanceByTemplate returns a live instance of template whose
// bindings match want exactly (used by the unifier to resolve refined
// object references against live instances). Instances are kept in a map,
// so when several match, which one is returned is not defined.
func (s *Store) FindInstanceByTemplate(template string, want map[string]string) (*Instance, bool) {
	for _, inst := range s.instances {
		if inst.Template != template {
			continue
		}
		if sameBindings(inst.Bindings, want) {
			return inst, true
		}
	}
	return nil, false
}

func sameBindings(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}
	return true
}

// DestroyInstance destroys id and recursively destroys every instance and
// frame it (transitively) owns, per spec.md §3's ownership invariant.
// It returns the aliases of every frame removed.
func (s *Store) DestroyInstance(id InstanceID) []string {
	inst, ok := s.instances[id]
	if !ok {
		return nil
	}
	var removed []string
	for _, child := range append([]InstanceID{}, inst.Children...) {
		removed = append(removed, s.DestroyInstance(child)...)
	}
	for _, fh := range s.framesInScope(InstanceOwner(id)) {
		s.removeFrameHandle(fh)
		removed = append(removed, fh.Alias)
	}
	delete(s.instances, id)
	s.log.Trace("instance-", "id", id)
	return removed
}

func (s *Store) framesInScope(owner Owner) []*FrameHandle {
	var out []*FrameHandle
	for _, fh := range s.frames {
		if fh.Owner == owner {
			out = append(out, fh)
		}
	}
	return out
}

// AddFrame registers a live frame under owner, rejecting a duplicate alias
// within that owning scope (spec.md §3 invariant: alias uniqueness).
func (s *Store) AddFrame(owner Owner, frame ast.Frame) (*FrameHandle, error) {
	alias := frame.FrameAlias()
	if alias == "" {
		alias = fmt.Sprintf("anon-%d", len(s.frames))
	}
	key := owner.String() + "/" + alias
	if _, exists := s.framesByID[key]; exists {
		return nil, dpclerr.New(dpclerr.NameError, frame.Span(), "duplicate alias %q in scope %s", alias, owner)
	}
	fh := &FrameHandle{
		Alias:         alias,
		Frame:         frame,
		Owner:         owner,
		PatternParams: patternParamsOf(s, frame),
		TriggerState:  map[string]bool{},
	}
	s.frames = append(s.frames, fh)
	s.framesByID[key] = fh
	s.log.Trace("frame+", "alias", alias, "owner", owner.String())
	return fh, nil
}

func patternParamsOf(s *Store, frame ast.Frame) map[string]bool {
	switch f := frame.(type) {
	case *ast.PowerFrame:
		return PatternParams(s, f.Action)
	case *ast.DeonticFrame:
		return PatternParams(s, f.Action)
	case *ast.ReactiveRule:
		return PatternParams(s, f.EventPattern)
	default:
		return nil
	}
}

// RemoveFrame removes the live frame identified by (owner, alias).
func (s *Store) RemoveFrame(owner Owner, alias string) error {
	key := owner.String() + "/" + alias
	fh, ok := s.framesByID[key]
	if !ok {
		return dpclerr.New(dpclerr.RuntimeError, token.None, "minus of non-live frame %q", alias)
	}
	s.removeFrameHandle(fh)
	return nil
}

func (s *Store) removeFrameHandle(fh *FrameHandle) {
	key := fh.Owner.String() + "/" + fh.Alias
	delete(s.framesByID, key)
	for i, f := range s.frames {
		if f == fh {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			break
		}
	}
	s.log.Trace("frame-", "alias", fh.Alias, "owner", fh.Owner.String())
}

// LiveFrames returns every live frame in load order (spec.md §4.5: matching
// order is load order).
func (s *Store) LiveFrames() []*FrameHandle {
	return s.frames
}

// LookupFrame finds a live frame by (owner, alias).
func (s *Store) LookupFrame(owner Owner, alias string) (*FrameHandle, bool) {
	fh, ok := s.framesByID[owner.String()+"/"+alias]
	return fh, ok
}

// Stats summarizes the store for diagnostics and testing.
type Stats struct {
	Atomics   int
	Instances int
	Frames    int
	HasPairs  int
}

// Stats returns current store cardinalities.
func (s *Store) Stats() Stats {
	return Stats{
		Atomics:   len(s.atomics),
		Instances: len(s.instances),
		Frames:    len(s.frames),
		HasPairs:  len(s.has),
	}
}

// AtomicNames returns every declared atomic, sorted, for deterministic
// reporting.
func (s *Store) AtomicNames() []string {
	out := make([]string, 0, len(s.atomics))
	for a := range s.atomics {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
