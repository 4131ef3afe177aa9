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

import "github.com/mfleminks/dpcl/internal/token"

// ctx tracks which directive is being decoded, so errors can carry a
// directive-index-plus-dotted-path position (token.Span) instead of a
// line/column: DPCL's surface syntax is JSON directives, not text.
type ctx struct {
	index int
}

func newCtx(index int) *ctx { return &ctx{index: index} }

func (c *ctx) span(path string) token.Span {
	return token.Span{Directive: c.index, Path: path}
}
