// Copyright 2025 EngFlow Inc. All rights reserved.
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

// Command cclint is the CLI wrapper around the analysis pipeline: a thin
// layer over internal/config, internal/engine and internal/output.
// Grounded on src/cli/argument_parser.cpp and src/cli/help_formatter.cpp,
// ported from their hand-rolled arg-vector scanning to the standard
// library flag package (index/conan/main.go's flag.String/flag.Bool/
// flag.Parse idiom) rather than a third-party CLI framework.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/KikuchiTomo/cclint/internal/config"
	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/engine"
	"github.com/KikuchiTomo/cclint/internal/incremental"
	"github.com/KikuchiTomo/cclint/internal/output"
)

// version mirrors main.cpp's VERSION constant.
const version = "0.1.0-alpha"

// sourceGlobs is what extractSourceFiles matches a compiler-command
// positional argument against, since a real compiler invocation mixes
// flags and file paths in the same argument vector. Matched with
// doublestar rather than a suffix scan, the same library
// internal/config uses for include/exclude patterns.
var sourceGlobs = []string{"**/*.cpp", "**/*.cc", "**/*.cxx", "**/*.h", "**/*.hpp", "**/*.hh", "**/*.hxx"}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("cclint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to the cclint configuration file")
	formatFlag := fs.String("format", "", "Output format: text, json, xml (default: text)")
	verbose := fs.Bool("v", false, "Verbose output")
	verboseLong := fs.Bool("verbose", false, "Verbose output")
	quiet := fs.Bool("q", false, "Quiet mode (errors only)")
	quietLong := fs.Bool("quiet", false, "Quiet mode (errors only)")
	showVersion := fs.Bool("version", false, "Show version information")
	useGitDiff := fs.Bool("git-diff", false, "Analyze only files changed since --git-base-ref")
	gitBaseRef := fs.String("git-base-ref", "HEAD", "Git ref to diff against with --git-diff")

	fs.Usage = func() { printHelp(stdout) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "cclint version %s\n", version)
		fmt.Fprintln(stdout, "Customizable C++ Linter")
		return 0
	}

	if fs.NArg() == 0 {
		printHelp(stdout)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "cclint: %v\n", err)
		return 2
	}

	format := *formatFlag
	if format == "" {
		format = cfg.OutputFormat
	}
	if format == "" {
		format = "text"
	}

	files := extractSourceFiles(fs.Args())
	if *useGitDiff {
		files, err = incremental.Filter(context.Background(), ".", *gitBaseRef, files)
		if err != nil {
			fmt.Fprintf(stderr, "cclint: %v\n", err)
			return 2
		}
	}

	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "cclint: %v\n", err)
		return 2
	}

	results := eng.AnalyzeFiles(context.Background(), files)
	for _, r := range results {
		if r.ErrorMessage != "" && (*verbose || *verboseLong) {
			log.Printf("cclint: %s: %s", r.FilePath, r.ErrorMessage)
		}
	}

	diagnostics := eng.AllDiagnostics()
	if *quiet || *quietLong {
		diagnostics = errorsOnly(diagnostics)
	}

	if err := output.Format(diagnostics, format, stdout); err != nil {
		fmt.Fprintf(stderr, "cclint: %v\n", err)
		return 2
	}

	if eng.ErrorCount() > 0 {
		return 1
	}
	return 0
}

func loadConfig(explicitPath string) (config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("resolving working directory: %w", err)
	}
	return config.Load(explicitPath, cwd)
}

// extractSourceFiles narrows a compiler-command argument vector down to
// the arguments that look like C/C++ source/header paths, the way a
// compiler-wrapping linter must separate flags from inputs.
// extract_compiler_command in the C++ reference left this unimplemented
// ("残りの引数がすべてコンパイラコマンド" — return everything unchanged);
// this fills that gap since §6 requires an actual file list to hand to
// internal/engine.AnalyzeFiles.
func extractSourceFiles(args []string) []string {
	var files []string
	for _, arg := range args {
		if len(arg) == 0 || arg[0] == '-' {
			continue
		}
		if matchesAnySourceGlob(arg) {
			files = append(files, arg)
		}
	}
	return files
}

func matchesAnySourceGlob(path string) bool {
	for _, pattern := range sourceGlobs {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// errorsOnly keeps only error-severity diagnostics, for -q/--quiet.
func errorsOnly(diagnostics []diag.Diagnostic) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diagnostics {
		if d.Severity == diag.Error {
			out = append(out, d)
		}
	}
	return out
}

func printHelp(w *os.File) {
	fmt.Fprint(w, `Usage: cclint [OPTIONS] <compiler-command>

A customizable static analyzer for C++ source code.

Options:
  --help              Show this help message
  --version           Show version information
  --config=FILE       Specify configuration file
  --format=FORMAT     Output format: text, json, xml (default: text)
  -v, --verbose       Verbose output
  -q, --quiet         Quiet mode (errors only)
  --git-diff          Analyze only files changed since --git-base-ref
  --git-base-ref=REF  Git ref to diff against with --git-diff (default: HEAD)

Examples:
  cclint g++ -std=c++17 main.cpp
  cclint --config=.cclint.yml g++ main.cpp
  cclint --format=json clang++ -std=c++20 src/*.cpp

For more information, visit:
  https://github.com/KikuchiTomo/cclint
`)
}
