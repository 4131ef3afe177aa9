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
	"github.com/mfleminks/dpcl/internal/loader"
	"github.com/mfleminks/dpcl/internal/unify"
	"github.com/mfleminks/dpcl/internal/world"
)

// Install installs a successfully loaded program into a fresh Engine: every
// top-level atomics declaration extends the store's vocabulary, every
// compound frame joins the template table, every power/deontic/rule frame
// joins the live set at root scope, and every bare event directive is
// dispatched through the cascade in load order (spec.md §6: "bare events
// (injected at load time)").
//
// This is the load-time counterpart to eval.applyDirective, which performs
// the same dispatch for a compound instance's content once it is
// instantiated at runtime.
func Install(eng *Engine, prog *loader.Program) error {
	for _, tmpl := range prog.Templates {
		eng.RegisterTemplate(tmpl)
	}
	for _, dir := range prog.Directives {
		if err := installDirective(eng, dir); err != nil {
			return err
		}
	}
	return nil
}

func installDirective(eng *Engine, dir ast.Directive) error {
	switch d := dir.(type) {
	case *ast.AtomicsDecl:
		for _, n := range d.Names {
			eng.store.DeclareAtomic(n)
		}
		return nil

	case *ast.FrameDirective:
		if _, ok := d.Frame.(*ast.CompoundFrame); ok {
			return nil // registered once up front from prog.Templates
		}
		_, err := eng.store.AddFrame(world.RootOwner, d.Frame)
		return err

	case *ast.EventDirective:
		return eng.Dispatch(d.Event, unify.NewEnv(), world.RootOwner)

	case *ast.ImportDirective:
		// Imports are already expanded into their nested directives by the
		// loader (spec.md §6); nothing left to install for the directive
		// itself.
		return nil

	default:
		return nil
	}
}
