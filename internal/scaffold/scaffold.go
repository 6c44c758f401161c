package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/webext-kit/webext/internal/condition"
	"github.com/webext-kit/webext/internal/filter"
)

//go:embed all:template
var embedded embed.FS

const (
	templateRoot = "template"
	tmplSuffix   = ".tmpl"
)

// ErrNotEmpty is returned when the output directory already has files and
// Force is not set.
var ErrNotEmpty = errors.New("output directory is not empty")

// Options configures one generation.
type Options struct {
	OutputDir string
	// Data is the template context, keyed by answer key.
	Data map[string]any
	// Filter and Env decide which files are emitted. A nil Filter keeps all.
	Filter *filter.Set
	Env    condition.Env
	// Force allows writing into a non-empty directory. Existing files with
	// the same name are overwritten.
	Force  bool
	Logger *slog.Logger
}

// Result holds the outcome of a generation.
type Result struct {
	OutputDir string
	// Files are the emitted paths, slash-separated and relative to OutputDir.
	Files []string
	// Skipped are template paths dropped by the filter.
	Skipped []string
}

// Templates returns the output paths of the embedded template tree, sorted.
func Templates() ([]string, error) {
	fsys, err := fs.Sub(embedded, templateRoot)
	if err != nil {
		return nil, err
	}
	entries, err := walk(fsys)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.out
	}
	return out, nil
}

// Generate renders the embedded template tree into opts.OutputDir.
func Generate(opts Options) (*Result, error) {
	fsys, err := fs.Sub(embedded, templateRoot)
	if err != nil {
		return nil, err
	}
	return GenerateFS(fsys, opts)
}

// GenerateFS renders the template tree rooted at fsys.
func GenerateFS(fsys fs.FS, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	entries, err := walk(fsys)
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	existing, err := os.ReadDir(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}
	if len(existing) > 0 && !opts.Force {
		return nil, fmt.Errorf("%s: %w; use --force to write into it", opts.OutputDir, ErrNotEmpty)
	}

	keep := make(map[string]bool, len(entries))
	if opts.Filter == nil {
		for _, e := range entries {
			keep[e.out] = true
		}
	} else {
		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = e.out
		}
		kept, _ := opts.Filter.Filter(paths, opts.Env)
		for _, p := range kept {
			keep[p] = true
		}
	}

	result := &Result{OutputDir: opts.OutputDir}
	for _, e := range entries {
		if !keep[e.out] {
			log.Debug("template filtered out", "path", e.out)
			result.Skipped = append(result.Skipped, e.out)
			continue
		}

		content, err := fs.ReadFile(fsys, e.src)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", e.src, err)
		}
		if e.render {
			content, err = render(e.src, content, opts.Data)
			if err != nil {
				return nil, err
			}
		}

		dst := filepath.Join(opts.OutputDir, filepath.FromSlash(e.out))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
		}
		if err := os.WriteFile(dst, content, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", dst, err)
		}
		log.Debug("wrote file", "path", e.out)
		result.Files = append(result.Files, e.out)
	}
	return result, nil
}

type entry struct {
	src    string // path inside the template FS
	out    string // path in the generated project
	render bool
}

func walk(fsys fs.FS) ([]entry, error) {
	var entries []entry
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		e := entry{src: p, out: p}
		if strings.HasSuffix(p, tmplSuffix) {
			e.out = strings.TrimSuffix(p, tmplSuffix)
			e.render = true
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].out < entries[j].out })
	return entries, nil
}

var funcs = template.FuncMap{
	// json quotes a value as a JSON literal; nil becomes "".
	"json": func(v any) (string, error) {
		if v == nil {
			v = ""
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	},
}

func render(name string, content []byte, data map[string]any) ([]byte, error) {
	tmpl, err := template.New(path.Base(name)).Funcs(funcs).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
