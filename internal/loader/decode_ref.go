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
	"fmt"

	"github.com/mfleminks/dpcl/internal/ast"
)

// decodeRef decodes an object reference: a bare string (name, reserved
// word, or wildcard), a refined-object map, or a scoped-object map
// (spec.md §3).
func (l *loader) decodeRef(ctx *ctx, path string, v interface{}) ast.ObjectRef {
	switch val := v.(type) {
	case string:
		return decodeBareRef(ctx, path, val)

	case map[string]interface{}:
		if _, ok := val["scope"]; ok {
			scope := l.decodeRef(ctx, path+".scope", val["scope"])
			name, _ := val["name"].(string)
			return &ast.Scoped{Scope: scope, Name: name, Pos: ctx.span(path)}
		}
		if _, ok := val["object"]; ok {
			object := l.decodeRef(ctx, path+".object", val["object"])
			refinement := l.decodeRefinement(ctx, path+".refinement", val["refinement"])
			alias, _ := val["alias"].(string)
			if alias != "" {
				l.declareAlias(ctx.span(path), alias)
			}
			return &ast.Refined{Object: object, Refinement: refinement, Alias: alias, Pos: ctx.span(path)}
		}
		l.fail(fieldError(ctx, path, "object reference must have %q or %q", "object", "scope"))
		return &ast.Name{Value: "", Pos: ctx.span(path)}

	default:
		l.fail(fieldError(ctx, path, "expected an object reference, got %T", v))
		return &ast.Name{Value: "", Pos: ctx.span(path)}
	}
}

func decodeBareRef(ctx *ctx, path, val string) ast.ObjectRef {
	switch ast.ReservedWord(val) {
	case ast.Self, ast.Super, ast.Holder:
		return &ast.Reserved{Word: ast.ReservedWord(val), Pos: ctx.span(path)}
	}
	if val == "*" {
		return &ast.Wildcard{Pos: ctx.span(path)}
	}
	return &ast.Name{Value: val, Pos: ctx.span(path)}
}

// decodeRefinement decodes a refinement mapping: each value is either an
// object reference or an event, distinguished structurally (an event is a
// "#tag" string or a map carrying one of the event discriminator keys).
func (l *loader) decodeRefinement(ctx *ctx, path string, v interface{}) ast.Refinement {
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		l.fail(fieldError(ctx, path, "refinement must be an object, got %T", v))
		return nil
	}
	out := make(ast.Refinement, len(m))
	for k, val := range m {
		entryPath := fmt.Sprintf("%s.%s", path, k)
		if looksLikeEvent(val) {
			out[k] = ast.EventValue{Ev: l.decodeEvent(ctx, entryPath, val)}
		} else {
			out[k] = ast.ObjectValue{Ref: l.decodeRef(ctx, entryPath, val)}
		}
	}
	return out
}

// looksLikeEvent distinguishes an event-valued refinement entry from an
// object-valued one: events are "#tag" strings or maps carrying one of
// the event discriminator keys (spec.md §3).
func looksLikeEvent(v interface{}) bool {
	switch val := v.(type) {
	case string:
		return len(val) > 0 && val[0] == '#'
	case map[string]interface{}:
		for _, key := range []string{"event", "agent", "plus", "minus", "gains"} {
			if _, ok := val[key]; ok {
				return true
			}
		}
	}
	return false
}
