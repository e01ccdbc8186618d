package syntax

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed data/commands.txt
var defaultCatalog []byte

// Source says where catalog declarations come from. The first configured
// field wins: Path, then SheetID, then Store. With nothing configured the
// built-in catalog is used.
type Source struct {
	Path        string // legacy .txt or .xlsx workbook
	SheetID     string
	SheetRange  string
	Credentials string
	Store       *Store
}

// Describe names the source for log messages.
func (s Source) Describe() string {
	switch {
	case s.Path != "":
		return s.Path
	case s.SheetID != "":
		return "sheets:" + s.SheetID
	case s.Store != nil:
		return "sql:" + StoreTable
	default:
		return "builtin"
	}
}

// LoadDeclarations reads the declarations of a source.
func LoadDeclarations(ctx context.Context, src Source) ([]Declaration, error) {
	switch {
	case src.Path != "":
		switch strings.ToLower(filepath.Ext(src.Path)) {
		case ".xlsx", ".xlsm":
			return ReadExcel(src.Path)
		default:
			return ReadLegacyFile(src.Path)
		}
	case src.SheetID != "":
		readRange := src.SheetRange
		if readRange == "" {
			readRange = "A:Z"
		}
		return ReadSheet(ctx, src.Credentials, src.SheetID, readRange)
	case src.Store != nil:
		return src.Store.Load(ctx)
	default:
		return ReadLegacy(bytes.NewReader(defaultCatalog))
	}
}

// Load reads a source and builds its catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	decls, err := LoadDeclarations(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("catalog source %s has no commands", src.Describe())
	}
	return Build(decls)
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog built from the embedded command list. It panics
// if the embedded data is broken.
func Default() *Catalog {
	defaultOnce.Do(func() {
		decls, err := ReadLegacy(bytes.NewReader(defaultCatalog))
		if err == nil {
			defaultCat, err = Build(decls)
		}
		if err != nil {
			panic(fmt.Sprintf("embedded command catalog: %v", err))
		}
	})
	return defaultCat
}
