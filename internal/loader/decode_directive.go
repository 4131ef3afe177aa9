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
	"github.com/mitchellh/mapstructure"

	"github.com/mfleminks/dpcl/internal/ast"
	"github.com/mfleminks/dpcl/internal/dpclerr"
)

type rawAtomics struct {
	Names []string `mapstructure:"names"`
}

type rawCompound struct {
	Object             string   `mapstructure:"object"`
	Params             []string `mapstructure:"params"`
	Alias              string   `mapstructure:"alias"`
	InitialDescriptors []string `mapstructure:"initial_descriptors"`
}

// decodeDirective dispatches on the directive's "kind" discriminator
// field, decoding the flat fields of the atomics and compound-frame shapes
// with mapstructure and every other field, including the polymorphic
// object/event/bool fields, by hand (mapstructure cannot dispatch a union
// type on its own).
func (l *loader) decodeDirective(ctx *ctx, r map[string]interface{}) ast.Directive {
	kind, _ := r["kind"].(string)
	switch kind {
	case "atomics":
		return l.decodeAtomics(ctx, r)
	case "power_frame":
		return &ast.FrameDirective{Frame: l.decodePowerFrame(ctx, r)}
	case "deontic_frame":
		return &ast.FrameDirective{Frame: l.decodeDeonticFrame(ctx, r)}
	case "compound_frame":
		return &ast.FrameDirective{Frame: l.decodeCompoundFrame(ctx, r)}
	case "transformational_rule":
		return &ast.FrameDirective{Frame: l.decodeTransformationalRule(ctx, r)}
	case "reactive_rule":
		return &ast.FrameDirective{Frame: l.decodeReactiveRule(ctx, r)}
	case "event":
		return &ast.EventDirective{Event: l.decodeEvent(ctx, "event", r["event"]), Pos: ctx.span("event")}
	case "":
		l.fail(fieldError(ctx, "kind", "directive missing %q", "kind"))
		return nil
	default:
		l.fail(fieldError(ctx, "kind", "unknown directive kind %q", kind))
		return nil
	}
}

func (l *loader) decodeAtomics(ctx *ctx, r map[string]interface{}) *ast.AtomicsDecl {
	var ra rawAtomics
	if err := mapstructure.Decode(r, &ra); err != nil {
		l.fail(dpclerr.Wrap(dpclerr.SchemaError, ctx.span("names"), err, "invalid atomics directive"))
		return nil
	}
	for _, n := range ra.Names {
		if isReserved(n) {
			l.fail(dpclerr.New(dpclerr.NameError, ctx.span("names"), "%q is a reserved word and cannot be declared atomic", n))
		}
	}
	return &ast.AtomicsDecl{Names: ra.Names, Pos: ctx.span("names")}
}

func (l *loader) decodePowerFrame(ctx *ctx, r map[string]interface{}) *ast.PowerFrame {
	alias, _ := r["alias"].(string)
	l.declareAlias(ctx.span("alias"), alias)
	position, _ := r["position"].(string)
	return &ast.PowerFrame{
		Position:    ast.PowerPosition(position),
		Holder:      l.decodeRef(ctx, "holder", r["holder"]),
		Action:      l.decodeEvent(ctx, "action", r["action"]),
		Consequence: l.decodeEvent(ctx, "consequence", r["consequence"]),
		Alias:       alias,
		Pos:         ctx.span(""),
	}
}

func (l *loader) decodeDeonticFrame(ctx *ctx, r map[string]interface{}) *ast.DeonticFrame {
	alias, _ := r["alias"].(string)
	l.declareAlias(ctx.span("alias"), alias)
	position, _ := r["position"].(string)
	df := &ast.DeonticFrame{
		Position:    ast.DeonticPosition(position),
		Holder:      l.decodeRef(ctx, "holder", r["holder"]),
		Action:      l.decodeEvent(ctx, "action", r["action"]),
		Violation:   l.decodeTrigger(ctx, "violation", r["violation"]),
		Fulfillment: l.decodeTrigger(ctx, "fulfillment", r["fulfillment"]),
		Termination: l.decodeTrigger(ctx, "termination", r["termination"]),
		Alias:       alias,
		Pos:         ctx.span(""),
	}
	if r["counterparty"] != nil {
		df.Counterparty = l.decodeRef(ctx, "counterparty", r["counterparty"])
	}
	return df
}

func (l *loader) decodeCompoundFrame(ctx *ctx, r map[string]interface{}) *ast.CompoundFrame {
	var rc rawCompound
	if err := mapstructure.Decode(r, &rc); err != nil {
		l.fail(dpclerr.Wrap(dpclerr.SchemaError, ctx.span(""), err, "invalid compound frame directive"))
		return nil
	}
	if rc.Object == "" {
		l.fail(fieldError(ctx, "object", "compound frame missing %q", "object"))
	}
	l.declareAlias(ctx.span("alias"), rc.Alias)

	initial := make([]ast.ObjectRef, 0, len(rc.InitialDescriptors))
	for _, d := range rc.InitialDescriptors {
		initial = append(initial, decodeBareRef(ctx, "initial_descriptors", d))
	}

	l.pushScope()
	var content []ast.Directive
	rawContent, _ := r["content"].([]interface{})
	for _, entry := range rawContent {
		rm, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if d := l.decodeDirective(ctx, rm); d != nil {
			content = append(content, d)
		}
	}
	l.popScope()

	cf := &ast.CompoundFrame{
		Object:             rc.Object,
		Params:             rc.Params,
		Content:            content,
		InitialDescriptors: initial,
		Alias:              rc.Alias,
		Pos:                ctx.span(""),
	}
	l.templates[cf.Object] = cf
	return cf
}

func (l *loader) decodeTransformationalRule(ctx *ctx, r map[string]interface{}) *ast.TransformationalRule {
	alias, _ := r["alias"].(string)
	l.declareAlias(ctx.span("alias"), alias)
	return &ast.TransformationalRule{
		Condition:  l.decodeBool(ctx, "condition", r["condition"]),
		Conclusion: l.decodeEvent(ctx, "conclusion", r["conclusion"]),
		Alias:      alias,
		Pos:        ctx.span(""),
	}
}

func (l *loader) decodeReactiveRule(ctx *ctx, r map[string]interface{}) *ast.ReactiveRule {
	alias, _ := r["alias"].(string)
	l.declareAlias(ctx.span("alias"), alias)
	if r["event"] == nil {
		l.fail(fieldError(ctx, "event", "reactive rule without an %q field is rejected (spec ambiguity resolved conservatively)", "event"))
	}
	return &ast.ReactiveRule{
		EventPattern: l.decodeEvent(ctx, "event", r["event"]),
		Reaction:     l.decodeEvent(ctx, "reaction", r["reaction"]),
		Alias:        alias,
		Pos:          ctx.span(""),
	}
}
