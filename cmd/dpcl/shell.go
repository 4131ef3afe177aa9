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

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mfleminks/dpcl/internal/eval"
	"github.com/mfleminks/dpcl/internal/loader"
	"github.com/mfleminks/dpcl/internal/query"
	"github.com/mfleminks/dpcl/internal/unify"
	"github.com/mfleminks/dpcl/internal/world"
)

// runShell implements spec.md §6's input stream: a line-oriented sequence
// of action requests, atomic events, and the three commands (`load`,
// `show`, `exit`). Errors raised while processing one line are printed and
// the shell keeps reading (spec.md §7: errors never crash the process);
// only `load` failures are fatal, and only at startup (see loadProgram).
func runShell(eng *eval.Engine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "exit":
			return nil

		case strings.HasPrefix(line, "load "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "load "))
			next, err := loadProgram(path, newLogger(), eval.DefaultStepBudget)
			if err != nil {
				fmt.Fprintln(out, "io_error:", err)
				continue
			}
			*eng = *next

		case strings.HasPrefix(line, "show "):
			target := strings.TrimSpace(strings.TrimPrefix(line, "show "))
			rendered, err := showTarget(eng, target)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			fmt.Fprint(out, rendered)

		default:
			if err := dispatchLine(eng, line); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		}
	}
	return scanner.Err()
}

// showTarget resolves a `show` argument: the `stats` affordance, a bare
// name, or a JSON object reference (a refined or scoped object).
func showTarget(eng *eval.Engine, target string) (string, error) {
	if target == "stats" {
		s := eng.Store().Stats()
		return fmt.Sprintf("atomics: %d\ninstances: %d\nframes: %d\nhas: %d\n",
			s.Atomics, s.Instances, s.Frames, s.HasPairs), nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(target), &v); err != nil {
		// Not JSON: treat the whole argument as a bare name.
		return query.ShowName(eng.Store(), target)
	}
	ref, err := loader.DecodeRef(v)
	if err != nil {
		return "", err
	}
	return query.Show(eng.Store(), ref)
}

// dispatchLine parses one input-stream line as a JSON value — either an
// atomic event string or an action-request/production/naming object — and
// dispatches it through the cascade.
func dispatchLine(eng *eval.Engine, line string) error {
	var v interface{}
	if err := json.Unmarshal([]byte(line), &v); err != nil {
		return fmt.Errorf("schema_error: %q is not a recognized command or JSON value", line)
	}
	ev, err := loader.DecodeEvent(v)
	if err != nil {
		return err
	}
	return eng.Dispatch(ev, unify.NewEnv(), world.RootOwner)
}
