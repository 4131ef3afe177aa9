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

package loader

import (
	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/dpclerr"
)

// validateStaticRefs implements the one static-reference check spec.md
// §4.2 actually requires at load time: a top-level bare event and a
// compound frame's initial_descriptors must name an already-declared
// atomic or template. Everything else — holder identities, action/
// consequence refinements, frame content — is resolved against live state
// by the unifier/evaluator at event time, per spec.md §4.2's own carve-out
// ("references resolved only at event time ... are deferred to C5").
// Forward references between siblings (a power frame referencing a
// compound frame declared later in the same directives list) are already
// folded into l.atomics by prescan, so they are not flagged here.
func (l *loader) validateStaticRefs(directives []ast.Directive) {
	for _, d := range directives {
		switch dir := d.(type) {
		case *ast.EventDirective:
			l.checkStaticEvent(dir.Event)
		case *ast.FrameDirective:
			if cf, ok := dir.Frame.(*ast.CompoundFrame); ok {
				for _, desc := range cf.InitialDescriptors {
					l.checkStaticRef(desc)
				}
			}
		}
	}
}

func (l *loader) checkStaticEvent(ev ast.Event) {
	switch e := ev.(type) {
	case *ast.Naming:
		l.checkStaticRef(e.Entity)
		l.checkStaticRef(e.Descriptor)
	case *ast.Production:
		l.checkStaticRef(e.Object)
	}
}

func (l *loader) checkStaticRef(ref ast.ObjectRef) {
	n, ok := ref.(*ast.Name)
	if !ok {
		return // reserved words, refinements, and scoped refs are not statically checkable here
	}
	if l.atomics[n.Value] {
		return
	}
	l.fail(dpclerr.New(dpclerr.NameError, n.Pos, "unknown reference %q: not a declared atomic or template", n.Value))
}
