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
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/dpclerr"
	"github.com/mfleminks/dpcl/internal/token"
)

// Program is the result of a successful load: the directives to apply at
// load time (in order, imports already expanded) and the compound-frame
// templates they declared.
type Program struct {
	Directives []ast.Directive
	Templates  map[string]*ast.CompoundFrame
}

// Scope is a stack frame of aliases declared in the current lexical
// scope, pushed on entry to a compound frame's content and popped on
// exit, so alias uniqueness (spec.md §3) is checked per scope rather
// than globally.
type Scope map[string]bool

type loader struct {
	fs        FileSystem
	log       hclog.Logger
	atomics   map[string]bool
	scopes    []Scope
	templates map[string]*ast.CompoundFrame
	errs      *multierror.Error
}

// Load parses and validates raw (a JSON directives array), resolving
// `import` directives against fs. It returns every schema_error/name_error
// found across the whole program, not just the first (spec.md §4.2).
func Load(raw []byte, fs FileSystem, log hclog.Logger) (*Program, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if fs == nil {
		fs = OSFileSystem{}
	}
	var rawDirectives []map[string]interface{}
	if err := json.Unmarshal(raw, &rawDirectives); err != nil {
		return nil, dpclerr.Wrap(dpclerr.SchemaError, token.None, err, "program is not a JSON directives array")
	}

	l := &loader{
		fs:        fs,
		log:       log.Named("loader"),
		atomics:   map[string]bool{},
		templates: map[string]*ast.CompoundFrame{},
	}
	l.pushScope()
	defer l.popScope()

	directives := l.expand(rawDirectives)
	l.validateStaticRefs(directives)

	if l.errs.ErrorOrNil() != nil {
		return nil, l.errs.ErrorOrNil()
	}
	return &Program{Directives: directives, Templates: l.templates}, nil
}

func (l *loader) pushScope() { l.scopes = append(l.scopes, Scope{}) }
func (l *loader) popScope()  { l.scopes = l.scopes[:len(l.scopes)-1] }

func (l *loader) declareAlias(pos token.Span, alias string) {
	if alias == "" {
		return
	}
	if isReserved(alias) {
		l.fail(dpclerr.New(dpclerr.NameError, pos, "%q is a reserved word and cannot be used as an alias", alias))
		return
	}
	top := l.scopes[len(l.scopes)-1]
	if top[alias] {
		l.fail(dpclerr.New(dpclerr.NameError, pos, "duplicate alias %q in this scope", alias))
		return
	}
	top[alias] = true
}

func isReserved(s string) bool {
	return s == string(ast.Self) || s == string(ast.Super) || s == string(ast.Holder) || s == "*"
}

func (l *loader) fail(err error) {
	l.errs = multierror.Append(l.errs, err)
}

// expand walks the raw directive maps in order, pre-registering every
// atomics declaration and compound-frame object name across the whole list
// first (forward references between siblings are permitted, spec.md
// §4.2), then decoding each directive, inlining imports as it goes.
func (l *loader) expand(raw []map[string]interface{}) []ast.Directive {
	l.prescan(raw)

	var out []ast.Directive
	for i, r := range raw {
		ctx := newCtx(i)
		kind, _ := r["kind"].(string)
		switch kind {
		case "import":
			out = append(out, l.expandImport(ctx, r)...)
		default:
			if d := l.decodeDirective(ctx, r); d != nil {
				out = append(out, d)
			}
		}
	}
	return out
}

// prescan registers atomics and compound-frame object names (not aliases)
// before full decoding, so
// a power frame earlier in the list can reference a compound frame's
// `object` name declared later (spec.md §4.2's forward-reference
// allowance).
func (l *loader) prescan(raw []map[string]interface{}) {
	for _, r := range raw {
		switch r["kind"] {
		case "atomics":
			for _, n := range toStringSlice(r["names"]) {
				l.atomics[n] = true
			}
		case "compound_frame":
			if obj, ok := r["object"].(string); ok {
				l.atomics[obj] = true // templates are valid static-reference targets too
			}
		}
	}
}

func (l *loader) expandImport(ctx *ctx, r map[string]interface{}) []ast.Directive {
	name, _ := r["name"].(string)
	if name == "" {
		l.fail(dpclerr.New(dpclerr.SchemaError, ctx.span(""), "import missing %q", "name"))
		return nil
	}
	data, err := l.fs.ReadFile(name)
	if err != nil {
		l.fail(dpclerr.Wrap(dpclerr.IOError, ctx.span(""), err, "cannot read import %q", name))
		return nil
	}
	var nested []map[string]interface{}
	if err := json.Unmarshal(data, &nested); err != nil {
		l.fail(dpclerr.Wrap(dpclerr.SchemaError, ctx.span(""), err, "import %q is not a JSON directives array", name))
		return nil
	}
	l.prescan(nested)
	var out []ast.Directive
	for i, nr := range nested {
		nctx := newCtx(ctx.index*1000 + i)
		if nr["kind"] == "import" {
			out = append(out, l.expandImport(nctx, nr)...)
			continue
		}
		if d := l.decodeDirective(nctx, nr); d != nil {
			out = append(out, d)
		}
	}
	return out
}

func toStringSlice(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func fieldError(ctx *ctx, path, format string, args ...interface{}) error {
	return dpclerr.New(dpclerr.SchemaError, ctx.span(path), fmt.Sprintf(format, args...))
}
