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

package dpclerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfleminks/dpcl/internal/dpclerr"
	"github.com/mfleminks/dpcl/internal/token"
)

func TestNewFormatsMessageAndOmitsPositionWhenNone(t *testing.T) {
	err := dpclerr.New(dpclerr.NameError, token.None, "unknown reference %q", "dracula")
	assert.Equal(t, `name_error: unknown reference "dracula"`, err.Error())
}

func TestNewIncludesPositionWhenSet(t *testing.T) {
	pos := token.Span{Directive: 3, Path: "library.json"}
	err := dpclerr.New(dpclerr.SchemaError, pos, "missing field %q", "kind")
	assert.Equal(t, `schema_error: `+pos.String()+`: missing field "kind"`, err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("file not found")
	err := dpclerr.Wrap(dpclerr.IOError, token.None, cause, "cannot read %q", "rules.json")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIsMatchesKindAcrossWrapping(t *testing.T) {
	inner := dpclerr.New(dpclerr.CascadeOverflow, token.None, "step budget exceeded")
	wrapped := fmt.Errorf("processing event: %w", inner)
	flattened := errors.New("processing event: " + inner.Error())
	assert.True(t, dpclerr.Is(inner, dpclerr.CascadeOverflow))
	assert.True(t, dpclerr.Is(wrapped, dpclerr.CascadeOverflow))
	assert.False(t, dpclerr.Is(flattened, dpclerr.CascadeOverflow), "Is follows Unwrap chains; an error that only copies the message text has none")
}

func TestIsReturnsFalseForNilOrMismatchedKind(t *testing.T) {
	assert.False(t, dpclerr.Is(nil, dpclerr.NameError))
	err := dpclerr.New(dpclerr.RuntimeError, token.None, "boom")
	assert.False(t, dpclerr.Is(err, dpclerr.NameError))
}
