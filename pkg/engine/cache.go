package engine

import (
	"fmt"
	"os"
	"reflect"
	"sync"
	"time"

	"msci/pkg/syntax"
)

// ScriptCache keeps compile results of script files until the file changes.
type ScriptCache struct {
	mu    sync.RWMutex
	files map[cacheKey]*CachedScript
}

type cacheKey struct {
	path    string
	version syntax.GameVersion
}

type CachedScript struct {
	Result  *Result
	ModTime time.Time
	catalog Catalog
}

func NewScriptCache() *ScriptCache {
	return &ScriptCache{files: make(map[cacheKey]*CachedScript)}
}

// CompileFile compiles the script at path, or returns the cached result if
// neither the file nor the catalog changed since.
func (c *ScriptCache) CompileFile(cat Catalog, version syntax.GameVersion, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := cacheKey{path: path, version: version}

	c.mu.RLock()
	cached, exists := c.files[key]
	c.mu.RUnlock()

	if exists && sameCatalog(cached.catalog, cat) && cached.ModTime.Equal(info.ModTime()) {
		return cached.Result, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	res := CompileText(cat, version, string(data))
	for i := range res.Diagnostics {
		res.Diagnostics[i].Filename = path
	}

	c.mu.Lock()
	c.files[key] = &CachedScript{Result: res, ModTime: info.ModTime(), catalog: cat}
	c.mu.Unlock()

	return res, nil
}

// sameCatalog reports whether a and b are the same catalog instance. Values of
// a type that cannot be compared never match, so their scripts are recompiled.
func sameCatalog(a, b Catalog) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Kind() == reflect.Ptr {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

// Clear drops every cached result.
func (c *ScriptCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[cacheKey]*CachedScript)
}

func (c *ScriptCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}
