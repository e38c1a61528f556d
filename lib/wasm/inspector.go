// Package wasm inspects the WebAssembly binaries behind canvas modules so
// builds can fail early when a mount export or an invokeWasm target is
// missing.
package wasm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/pthm/axiom/lib/codec"
	"github.com/pthm/axiom/lib/program"
)

// Config holds inspector configuration.
type Config struct {
	// Memory limit for compiled modules, in 64KiB pages.
	MemoryPages uint32

	// Compilation cache directory. Empty keeps the cache in memory.
	CacheDir string
}

// DefaultConfig returns the defaults used when no config is given.
func DefaultConfig() *Config {
	return &Config{
		MemoryPages: 256, // 16MiB
	}
}

// Inspector compiles modules with wazero and reports their exports. Modules
// are never instantiated.
type Inspector struct {
	runtime wazero.Runtime
	logger  *zap.Logger

	mu      sync.Mutex
	exports map[string][]string // module name -> sorted function exports

	closeOnce sync.Once
}

// NewInspector creates an inspector. A nil logger discards output and a nil
// config uses DefaultConfig.
func NewInspector(ctx context.Context, logger *zap.Logger, cfg *Config) (*Inspector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rc := wazero.NewRuntimeConfig()
	if cfg.MemoryPages > 0 {
		rc = rc.WithMemoryLimitPages(cfg.MemoryPages)
	}
	if cfg.CacheDir != "" {
		cache, err := wazero.NewCompilationCacheWithDir(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("open compilation cache %s: %w", cfg.CacheDir, err)
		}
		rc = rc.WithCompilationCache(cache)
	}

	i := &Inspector{
		runtime: wazero.NewRuntimeWithConfig(ctx, rc),
		logger:  logger.With(zap.String("component", "wasm-inspector")),
		exports: make(map[string][]string),
	}

	i.logger.Debug("wasm inspector initialized",
		zap.Uint32("memory_pages", cfg.MemoryPages),
		zap.String("cache_dir", cfg.CacheDir),
	)
	return i, nil
}

// Close releases the runtime. Safe to call more than once.
func (i *Inspector) Close(ctx context.Context) error {
	var err error
	i.closeOnce.Do(func() {
		err = i.runtime.Close(ctx)
	})
	return err
}

// Exports returns the sorted names of the functions the module exports.
func (i *Inspector) Exports(ctx context.Context, src ModuleSource) ([]string, error) {
	i.mu.Lock()
	cached, ok := i.exports[src.Name()]
	i.mu.Unlock()
	if ok {
		i.logger.Debug("module cache hit", zap.String("module", src.Name()))
		return slices.Clone(cached), nil
	}

	data, err := src.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", src.Name(), err)
	}

	start := time.Now()
	compiled, err := i.runtime.CompileModule(ctx, data)
	if err != nil {
		return nil, &CompilationError{ModuleName: src.Name(), Err: err}
	}
	defer compiled.Close(ctx)

	names := make([]string, 0, len(compiled.ExportedFunctions()))
	for name := range compiled.ExportedFunctions() {
		names = append(names, name)
	}
	slices.Sort(names)

	i.logger.Debug("module compiled",
		zap.String("module", src.Name()),
		zap.Int("size_bytes", len(data)),
		zap.Int("exports", len(names)),
		zap.Duration("duration", time.Since(start)),
	)

	i.mu.Lock()
	i.exports[src.Name()] = names
	i.mu.Unlock()

	return slices.Clone(names), nil
}

// Binding ties a canvas to the binary its JS module wraps.
type Binding struct {
	Canvas codec.Canvas
	Source ModuleSource
}

// Verify checks that every binding's module exports the canvas mount
// function and every function that actions invoke on that canvas. All
// missing exports are reported together. Invocations addressing a canvas
// without a binding are logged and skipped.
func (i *Inspector) Verify(ctx context.Context, bindings []Binding, actions []program.Action) error {
	required := make(map[string][]string, len(bindings))
	byCanvas := make(map[string]Binding, len(bindings))
	for _, b := range bindings {
		byCanvas[b.Canvas.ID] = b
		required[b.Canvas.ID] = appendUnique(required[b.Canvas.ID], b.Canvas.MountExport())
	}

	for _, a := range actions {
		if a.Kind != program.ActionInvokeWasm {
			continue
		}
		if _, ok := byCanvas[a.Canvas]; !ok {
			i.logger.Warn("invokeWasm targets a canvas without a binary; skipping",
				zap.String("canvas", a.Canvas),
				zap.String("export", a.Export),
			)
			continue
		}
		required[a.Canvas] = appendUnique(required[a.Canvas], a.Export)
	}

	var errs []error
	for _, b := range bindings {
		exports, err := i.Exports(ctx, b.Source)
		if err != nil {
			errs = append(errs, fmt.Errorf("canvas '%s': %w", b.Canvas.ID, err))
			continue
		}
		for _, name := range required[b.Canvas.ID] {
			if _, found := slices.BinarySearch(exports, name); !found {
				errs = append(errs, &ExportNotFoundError{
					ModuleName: b.Source.Name(),
					CanvasID:   b.Canvas.ID,
					Export:     name,
				})
			}
		}
		i.logger.Info("canvas checked",
			zap.String("canvas", b.Canvas.ID),
			zap.String("module", b.Source.Name()),
			zap.Strings("required", required[b.Canvas.ID]),
		)
	}
	return errors.Join(errs...)
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
