package level

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoSuchLevel is returned for an ordinal outside the pack.
var ErrNoSuchLevel = errors.New("level: no such level")

// Definition is the YAML form of one level.
type Definition struct {
	Name  string   `yaml:"name"`
	Map   string   `yaml:"map"`
	Music int      `yaml:"music,omitempty"`
	Hue   *float64 `yaml:"hue,omitempty"`
}

// Pack is an ordered set of level definitions.
type Pack struct {
	id    string
	title string
	defs  []Definition
}

// NewPack creates a pack from definitions already in play order.
func NewPack(id, title string, defs []Definition) *Pack {
	return &Pack{id: id, title: title, defs: defs}
}

// ID returns the pack identifier used for storage and the CLI.
func (p *Pack) ID() string { return p.id }

// Title returns a human-readable pack name.
func (p *Pack) Title() string { return p.title }

// Len returns the number of levels.
func (p *Pack) Len() int { return len(p.defs) }

// Definitions returns a copy of the pack's definitions.
func (p *Pack) Definitions() []Definition {
	out := make([]Definition, len(p.defs))
	copy(out, p.defs)
	return out
}

// Level parses the level with the given 1-based ordinal.
func (p *Pack) Level(ordinal int) (*Level, error) {
	if ordinal < 1 || ordinal > len(p.defs) {
		return nil, fmt.Errorf("%w: %d (pack %q has %d)", ErrNoSuchLevel, ordinal, p.id, len(p.defs))
	}
	return Parse(p.defs[ordinal-1], ordinal)
}

// Validate parses every level and returns the first error.
func (p *Pack) Validate() error {
	for i := range p.defs {
		if _, err := Parse(p.defs[i], i+1); err != nil {
			return err
		}
	}
	return nil
}

// LoadFS reads every .yaml or .yml file in dir of fsys, sorted by file name.
// Each file holds one Definition.
func LoadFS(fsys fs.FS, dir, id, title string) (*Pack, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("level: cannot read pack %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("level: cannot read %s: %w", name, err)
		}
		var def Definition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("level: cannot parse %s: %w", name, err)
		}
		if def.Name == "" {
			def.Name = strings.TrimSuffix(name, path.Ext(name))
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("level: pack %s has no levels", dir)
	}

	pack := NewPack(id, title, defs)
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	return pack, nil
}

// LoadDir reads a directory pack from disk. The pack id is the directory's
// base name.
func LoadDir(dir string) (*Pack, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("level: cannot open pack %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("level: pack %s is not a directory", dir)
	}
	id := path.Base(strings.ReplaceAll(strings.TrimRight(dir, `/\`), `\`, "/"))
	return LoadFS(os.DirFS(dir), ".", id, id)
}
