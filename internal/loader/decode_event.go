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
	"strings"

	"github.com/mfleminks/dpcl/internal/ast"
)

// decodeEvent decodes an event: an atomic/wildcard tag string, or one of
// the refined/scoped/production/naming shapes (spec.md §3).
func (l *loader) decodeEvent(ctx *ctx, path string, v interface{}) ast.Event {
	switch val := v.(type) {
	case string:
		return decodeTagEvent(ctx, path, val)

	case map[string]interface{}:
		switch {
		case val["event"] != nil:
			tag := strings.TrimPrefix(val["event"].(string), "#")
			refinement := l.decodeRefinement(ctx, path+".refinement", val["refinement"])
			return &ast.RefinedEvent{Tag: tag, Refinement: refinement, Pos: ctx.span(path)}

		case val["agent"] != nil:
			agent := l.decodeRef(ctx, path+".agent", val["agent"])
			action := l.decodeEvent(ctx, path+".action", val["action"])
			return &ast.ScopedEvent{Agent: agent, Action: action, Pos: ctx.span(path)}

		case val["plus"] != nil:
			obj := l.decodeRef(ctx, path+".plus", val["plus"])
			return &ast.Production{Op: ast.Plus, Object: obj, Pos: ctx.span(path)}

		case val["minus"] != nil:
			obj := l.decodeRef(ctx, path+".minus", val["minus"])
			return &ast.Production{Op: ast.Minus, Object: obj, Pos: ctx.span(path)}

		case val["entity"] != nil:
			entity := l.decodeRef(ctx, path+".entity", val["entity"])
			descriptor := l.decodeRef(ctx, path+".descriptor", val["descriptor"])
			gains, _ := val["gains"].(bool)
			return &ast.Naming{Entity: entity, Descriptor: descriptor, Gains: gains, Pos: ctx.span(path)}

		default:
			l.fail(fieldError(ctx, path, "unrecognized event shape"))
			return &ast.AtomicEvent{Tag: "", Pos: ctx.span(path)}
		}

	default:
		l.fail(fieldError(ctx, path, "expected an event, got %T", v))
		return &ast.AtomicEvent{Tag: "", Pos: ctx.span(path)}
	}
}

func decodeTagEvent(ctx *ctx, path, val string) ast.Event {
	tag := strings.TrimPrefix(val, "#")
	if tag == "*" {
		return &ast.WildcardEvent{Pos: ctx.span(path)}
	}
	return &ast.AtomicEvent{Tag: tag, Pos: ctx.span(path)}
}
