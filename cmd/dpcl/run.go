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
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mfleminks/dpcl/internal/eval"
	"github.com/mfleminks/dpcl/internal/loader"
	"github.com/mfleminks/dpcl/internal/world"
)

func runCmd() *cobra.Command {
	var stepBudget int
	cmd := &cobra.Command{
		Use:   "run <program.json>",
		Short: "Load a program and drive it from stdin (spec.md §6)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			eng, err := loadProgram(args[0], log, stepBudget)
			if err != nil {
				fmt.Fprintln(os.Stderr, "load error:", err)
				return err
			}
			return runShell(eng, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().IntVar(&stepBudget, "step-budget", eval.DefaultStepBudget, "cascade step budget before cascade_overflow")
	return cmd
}

// loadProgram reads and loads a program file (spec.md §6: "exit codes: 0 on
// clean exit; nonzero on unrecoverable load error"), then wires the loaded
// directives into a fresh engine via eval.Install.
func loadProgram(path string, log hclog.Logger, stepBudget int) (*eval.Engine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	prog, err := loader.Load(raw, loader.OSFileSystem{}, log)
	if err != nil {
		return nil, err
	}
	store := world.New(log)
	eng := eval.NewEngine(store, eval.Config{Logger: log, StepBudget: stepBudget})
	if err := eval.Install(eng, prog); err != nil {
		return nil, err
	}
	return eng, nil
}
