package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"msci/pkg/syntax"
)

// HandleCatalogImport reads declarations from a file or Google Sheet and
// replaces the contents of the SQL catalog store with them.
//
//	msci catalog:import commands.txt
//	msci catalog:import commands.xlsx
//	msci catalog:import --sheet=<spreadsheet id> [--range=A:Z]
func HandleCatalogImport(args []string) {
	os.Exit(runCatalogImport(context.Background(), args, os.Stdout))
}

func runCatalogImport(ctx context.Context, args []string, out io.Writer) int {
	src := syntax.Source{}
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--sheet="):
			src.SheetID = strings.TrimPrefix(arg, "--sheet=")
		case strings.HasPrefix(arg, "--range="):
			src.SheetRange = strings.TrimPrefix(arg, "--range=")
		default:
			src.Path = arg
		}
	}
	if src.Path == "" && src.SheetID == "" {
		fmt.Fprintln(out, "Usage: msci catalog:import <commands.txt|commands.xlsx> | --sheet=<id> [--range=A:Z]")
		return 1
	}

	env, err := loadEnv(ctx)
	if err != nil {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
		return 1
	}
	defer env.Close()
	if env.store == nil {
		fmt.Fprintln(out, "❌ Error: no catalog database configured (set DB_DRIVER and DB_NAME)")
		return 1
	}
	src.Credentials = env.cfg.GoogleCredentials

	decls, err := syntax.LoadDeclarations(ctx, src)
	if err != nil {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
		return 1
	}
	// refuse to store what would not build
	cat, err := syntax.Build(decls)
	if err != nil {
		fmt.Fprintf(out, "❌ Invalid catalog %s: %v\n", src.Describe(), err)
		return 1
	}
	if err := env.store.Save(ctx, decls); err != nil {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
		return 1
	}

	slog.Info("catalog imported", "source", src.Describe(), "declarations", len(decls))
	fmt.Fprintf(out, "✅ Imported %d declarations (%d signatures) from %s\n", len(decls), cat.Len(), src.Describe())
	return 0
}

// HandleCatalogExport writes the configured catalog's declarations to a
// legacy .txt file or an .xlsx workbook.
func HandleCatalogExport(args []string) {
	os.Exit(runCatalogExport(context.Background(), args, os.Stdout))
}

func runCatalogExport(ctx context.Context, args []string, out io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: msci catalog:export <commands.txt|commands.xlsx>")
		return 1
	}
	target := args[0]

	env, err := loadEnv(ctx)
	if err != nil {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
		return 1
	}
	defer env.Close()

	decls, err := syntax.LoadDeclarations(ctx, env.cfg.Source(env.store))
	if err != nil {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
		return 1
	}
	if len(decls) == 0 {
		// empty store: export the built-in catalog
		decls, err = syntax.LoadDeclarations(ctx, syntax.Source{})
		if err != nil {
			fmt.Fprintf(out, "❌ Error: %v\n", err)
			return 1
		}
	}

	switch strings.ToLower(filepath.Ext(target)) {
	case ".xlsx":
		err = syntax.WriteExcel(target, decls)
	default:
		err = writeLegacyFile(target, decls)
	}
	if err != nil {
		fmt.Fprintf(out, "❌ Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "✅ Exported %d declarations to %s\n", len(decls), target)
	return 0
}

func writeLegacyFile(path string, decls []syntax.Declaration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := syntax.WriteLegacy(f, decls); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
