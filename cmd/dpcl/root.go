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
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var verbose bool

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dpcl",
		Short: "Interpreter for the DPCL institutional-world language",
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace cascade dispatch to stderr")
	cmd.AddCommand(runCmd())
	return cmd
}

func newLogger() hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Trace
	}
	return hclog.New(&hclog.LoggerOptions{Name: "dpcl", Level: level})
}
