package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"msci/pkg/analysis"
	"msci/pkg/engine"
	"msci/pkg/fastjson"
	"msci/pkg/syntax"
)

const checkUsage = "Usage: msci check [--json] [--version=TC] <script.txt|dir>..."

// HandleCheck compiles and analyzes scripts, exiting 1 when any has errors.
func HandleCheck(args []string) {
	os.Exit(runCheck(context.Background(), args, os.Stdout))
}

type checkReport struct {
	Success  bool                `json:"success"`
	Files    int                 `json:"files"`
	Errors   []engine.Diagnostic `json:"errors"`
	Warnings []engine.Diagnostic `json:"warnings"`
}

func runCheck(ctx context.Context, args []string, out io.Writer) int {
	isJSON := false
	versionFlag := ""
	var paths []string

	for _, arg := range args {
		switch {
		case arg == "--json":
			isJSON = true
		case strings.HasPrefix(arg, "--version="):
			versionFlag = strings.TrimPrefix(arg, "--version=")
		default:
			paths = append(paths, arg)
		}
	}
	if len(paths) == 0 {
		fmt.Fprintln(out, checkUsage)
		return 1
	}

	env, err := loadEnv(ctx)
	if err != nil {
		return fail(out, isJSON, err)
	}
	defer env.Close()

	version := env.cfg.Version
	if versionFlag != "" {
		if version, err = syntax.ParseVersion(versionFlag); err != nil {
			return fail(out, isJSON, err)
		}
	}

	files, err := collectScripts(paths)
	if err != nil {
		return fail(out, isJSON, err)
	}

	report := checkReport{Files: len(files), Errors: []engine.Diagnostic{}, Warnings: []engine.Diagnostic{}}
	cache := engine.NewScriptCache()
	analyzer := analysis.NewAnalyzer()
	for _, file := range files {
		res, err := cache.CompileFile(env.catalog, version, file)
		if err != nil {
			return fail(out, isJSON, err)
		}
		result := analyzer.Analyze(res)
		setFile(result.Errors, file)
		setFile(result.Warnings, file)
		report.Errors = append(report.Errors, result.Errors...)
		report.Warnings = append(report.Warnings, result.Warnings...)
	}
	report.Success = len(report.Errors) == 0

	if isJSON {
		fastjson.Print(out, report)
		if !report.Success {
			return 1
		}
		return 0
	}

	if !report.Success {
		fmt.Fprintf(out, "❌ Static Analysis Failed (%d errors):\n", len(report.Errors))
		for _, diag := range report.Errors {
			fmt.Fprintf(out, "  - [%s:%d:%d] %s\n", diag.Filename, diag.Line, diag.Start+1, diag.Message)
		}
	}
	for _, diag := range report.Warnings {
		fmt.Fprintf(out, "⚠️  Warning: [%s:%d:%d] %s\n", diag.Filename, diag.Line, diag.Start+1, diag.Message)
	}
	if !report.Success {
		return 1
	}

	fmt.Fprintf(out, "✅ Code Valid (%d file(s), %s)\n", report.Files, version)
	return 0
}

// collectScripts expands directories into the .txt scripts below them.
func collectScripts(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("script %s not found: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".txt") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func setFile(diags []engine.Diagnostic, file string) {
	for i := range diags {
		diags[i].Filename = file
	}
}

func fail(out io.Writer, isJSON bool, err error) int {
	if isJSON {
		fastjson.Print(out, checkReport{
			Errors:   []engine.Diagnostic{{Type: "error", Message: err.Error()}},
			Warnings: []engine.Diagnostic{},
		})
	} else {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
	}
	return 1
}
