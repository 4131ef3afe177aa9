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

import "github.com/mfleminks/dpcl/internal/ast"

// DecodeEvent decodes one already-JSON-unmarshaled value into an ast.Event,
// for the shell's line-oriented input stream (spec.md §6): an action
// request, an atomic event tag, or a production/naming event. It shares the
// directive decoder's rules but runs outside any program's alias scope,
// since input-stream values never declare aliases of their own.
func DecodeEvent(v interface{}) (ast.Event, error) {
	l := newScratchLoader()
	ev := l.decodeEvent(newCtx(0), "input", v)
	if err := l.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return ev, nil
}

// DecodeRef decodes one already-JSON-unmarshaled value into an
// ast.ObjectRef, for the shell's `show <ref>` command.
func DecodeRef(v interface{}) (ast.ObjectRef, error) {
	l := newScratchLoader()
	ref := l.decodeRef(newCtx(0), "input", v)
	if err := l.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return ref, nil
}

func newScratchLoader() *loader {
	l := &loader{atomics: map[string]bool{}, templates: map[string]*ast.CompoundFrame{}}
	l.pushScope()
	return l
}
