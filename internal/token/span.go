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

// Package token holds the source-position type shared by every AST node.
package token

import "fmt"

// Span identifies the directive a term was decoded from, for diagnostics.
// DPCL directives arrive as JSON values rather than text, so a Span locates
// a term by its path into the directives array instead of by line/column.
type Span struct {
	Directive int    // index into the top-level directives array
	Path      string // dotted path within the directive, e.g. "content[2].action"
}

func (s Span) String() string {
	if s.Path == "" {
		return fmt.Sprintf("directive[%d]", s.Directive)
	}
	return fmt.Sprintf("directive[%d].%s", s.Directive, s.Path)
}

// None marks a position with no source location (e.g. errors raised at
// evaluation time). It has Directive -1 and so differs from the zero Span,
// which names directive 0.
var None = Span{Directive: -1}
