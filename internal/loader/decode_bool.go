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

// decodeBool decodes a boolean expression: a literal, a has-condition, a
// negation, or a bare object reference used as a liveness check
// (spec.md §4.6).
func (l *loader) decodeBool(ctx *ctx, path string, v interface{}) ast.BoolExpr {
	switch val := v.(type) {
	case bool:
		return &ast.BoolLiteral{Value: val, Pos: ctx.span(path)}

	case map[string]interface{}:
		if neg, ok := val["negate"]; ok {
			return &ast.Negate{Expr: l.decodeBool(ctx, path+".negate", neg), Pos: ctx.span(path)}
		}
		if _, ok := val["has"]; ok {
			entity := l.decodeRef(ctx, path+".entity", val["entity"])
			descriptor := l.decodeRef(ctx, path+".descriptor", val["descriptor"])
			has, _ := val["has"].(bool)
			return &ast.HasCondition{Entity: entity, Descriptor: descriptor, Has: has, Pos: ctx.span(path)}
		}
		return &ast.RefExists{Ref: l.decodeRef(ctx, path, val), Pos: ctx.span(path)}

	case string:
		return &ast.RefExists{Ref: l.decodeRef(ctx, path, val), Pos: ctx.span(path)}

	default:
		l.fail(fieldError(ctx, path, "expected a boolean expression, got %T", v))
		return &ast.BoolLiteral{Value: false, Pos: ctx.span(path)}
	}
}

// decodeTrigger decodes a violation/fulfillment/termination field: either
// an event pattern or a boolean expression, never both (spec.md §3). A
// missing field decodes to the zero Trigger.
func (l *loader) decodeTrigger(ctx *ctx, path string, v interface{}) ast.Trigger {
	if v == nil {
		return ast.Trigger{}
	}
	if s, ok := v.(string); ok && len(s) > 0 && s[0] == '#' {
		return ast.Trigger{EventPattern: l.decodeEvent(ctx, path, v)}
	}
	if m, ok := v.(map[string]interface{}); ok {
		if m["event"] != nil || m["agent"] != nil || m["plus"] != nil || m["minus"] != nil {
			return ast.Trigger{EventPattern: l.decodeEvent(ctx, path, v)}
		}
	}
	return ast.Trigger{BoolExpr: l.decodeBool(ctx, path, v)}
}
