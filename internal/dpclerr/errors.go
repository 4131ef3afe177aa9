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

// Package dpclerr holds the typed error kinds surfaced by the interpreter
// (spec.md §7). Unification failure is deliberately not represented here:
// per spec it is a silent no-op, never an error.
package dpclerr

import (
	"errors"
	"fmt"

	"github.com/mfleminks/dpcl/internal/token"
)

// Kind distinguishes the recoverable error categories named in spec.md §7.
type Kind string

const (
	SchemaError     Kind = "schema_error"
	NameError       Kind = "name_error"
	RuntimeError    Kind = "runtime_error"
	CascadeOverflow Kind = "cascade_overflow"
	IOError         Kind = "io_error"
)

// Error is a typed, positioned, wrappable error. It never represents a
// process crash: every Error is meant to be surfaced to the shell and
// handled, per spec.md §7.
type Error struct {
	Kind Kind
	Pos  token.Span
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Pos != token.None {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with no wrapped cause.
func New(kind Kind, pos token.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error wrapping an existing cause.
func Wrap(kind Kind, pos token.Span, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether the first *Error found in err's chain (via errors.As,
// which also looks inside a multierror's accumulated errors) has the given
// kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
