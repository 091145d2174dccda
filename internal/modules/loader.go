package modules

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"

	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/parser"
	"github.com/funvibe/symres/internal/pipeline"
	"github.com/funvibe/symres/internal/token"
	"github.com/funvibe/symres/internal/utils"
)

// Loader reads declaration units from files and directories and groups
// them by module. Problems with a single unit become L001/L002 diagnostics;
// loading carries on with the other units.
type Loader struct {
	LoadedUnits   map[string]*ast.Unit // Cache of loaded units by absolute path
	ModulesByName map[string]*Module

	errors []*diagnostics.DiagnosticError
}

func NewLoader() *Loader {
	return &Loader{
		LoadedUnits:   make(map[string]*ast.Unit),
		ModulesByName: make(map[string]*Module),
	}
}

// Load reads every path: a unit file, or a directory searched recursively
// for unit files. Only cancellation of ctx is returned as an error.
func (l *Loader) Load(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.loadPath(ctx, path)
	}
	return ctx.Err()
}

// LoadIncludes loads include paths listed in settings read from baseDir.
func (l *Loader) LoadIncludes(ctx context.Context, baseDir string, includes []string) error {
	paths := make([]string, len(includes))
	for i, inc := range includes {
		paths[i] = utils.IncludeDir(baseDir, inc)
	}
	return l.Load(ctx, paths...)
}

func (l *Loader) loadPath(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		l.fail(path, err)
		return
	}
	if !info.IsDir() {
		l.loadFile(ctx, path)
		return
	}
	l.loadDir(ctx, path)
}

func (l *Loader) loadDir(ctx context.Context, dir string) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			l.fail(path, err)
			return nil
		}
		if d.IsDir() || d.Name() == config.SettingsFileName || !config.HasSourceExt(d.Name()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		l.fail(dir, err)
		return
	}
	// Sort for deterministic processing order
	sort.Strings(files)
	if len(files) == 0 {
		slogctx.Warn(ctx, "no declaration units found", "dir", dir)
	}
	for _, f := range files {
		l.loadFile(ctx, f)
	}
}

func (l *Loader) loadFile(ctx context.Context, path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		l.fail(path, err)
		return
	}
	if _, ok := l.LoadedUnits[absPath]; ok {
		return
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		l.fail(path, err)
		return
	}
	l.add(ctx, absPath, path, content)
}

// LoadSource parses an in-memory unit as if it were read from name.
func (l *Loader) LoadSource(ctx context.Context, name string, source []byte) *ast.Unit {
	if unit, ok := l.LoadedUnits[name]; ok {
		return unit
	}
	return l.add(ctx, name, name, source)
}

func (l *Loader) add(ctx context.Context, key, file string, source []byte) *ast.Unit {
	pctx := pipeline.NewPipelineContext(ctx, file, source)
	pctx = pipeline.New(&parser.ParserProcessor{}).Run(pctx)
	l.errors = append(l.errors, pctx.Errors...)
	if pctx.Unit == nil {
		return nil
	}

	unit := pctx.Unit
	unit.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+key))
	l.LoadedUnits[key] = unit

	mod, ok := l.ModulesByName[unit.Module]
	if !ok {
		mod = &Module{Name: unit.Module, Dir: utils.UnitDir(file)}
		l.ModulesByName[unit.Module] = mod
	}
	mod.Units = append(mod.Units, unit)

	slogctx.Debug(ctx, "unit loaded",
		"file", file,
		"module", unit.Module,
		"unit", unit.ID.String(),
		"declarations", len(unit.Declarations))
	return unit
}

func (l *Loader) fail(path string, err error) {
	l.errors = append(l.errors, diagnostics.Errorf(diagnostics.ErrL001, token.At(path, 1, ""), "cannot load declarations: %v", err))
}

// Units returns every loaded unit ordered by file.
func (l *Loader) Units() []*ast.Unit {
	out := make([]*ast.Unit, 0, len(l.LoadedUnits))
	for _, u := range l.LoadedUnits {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// Modules returns the loaded modules ordered by name.
func (l *Loader) Modules() []*Module {
	out := make([]*Module, 0, len(l.ModulesByName))
	for _, m := range l.ModulesByName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Errors returns the diagnostics raised while loading.
func (l *Loader) Errors() []*diagnostics.DiagnosticError {
	return l.errors
}
