package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source is the position of the value that last set a setting.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	if s.Kind != SourceFile {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // setting path, e.g. "windows[0].color"
	Files   []string          // in load order, includes first
}

// SourceOf describes where a setting came from.
func (r *LoadResult) SourceOf(path string) Source {
	if src, ok := r.Sources[path]; ok {
		return src
	}
	return Source{Kind: SourceDefault}
}

// ValidationError points at the offending setting and, when known, the
// file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Source.Kind == SourceFile && e.Source.Line > 0:
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	res, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadFromPath loads path and its includes over the defaults and validates
// the result. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{
		seen:    map[string]bool{},
		sources: map[string]Source{},
	}

	var raw RawConfig
	if _, err := os.Stat(path); err == nil {
		if raw, err = l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := BuildEffectiveConfig(raw)
	if err := cfg.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			if src, ok := l.sources[verr.Path]; ok {
				verr.Source = src
			}
		}
		return nil, err
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// loader merges one file tree. Includes are applied before the including
// file so the file's own settings win.
type loader struct {
	seen    map[string]bool
	chain   []string // files currently being loaded, outermost first
	sources map[string]Source
	files   []string
}

func (l *loader) load(path string) (RawConfig, error) {
	file := canonicalPath(path)
	if slices.Contains(l.chain, file) {
		return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), file)
	}
	if l.seen[file] {
		return RawConfig{}, nil
	}
	l.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", file, err)
	}
	positions := nodePositions(&doc, file)

	l.chain = append(l.chain, file)
	var merged RawConfig
	for _, inc := range raw.Include {
		paths, err := expandInclude(file, inc)
		if err != nil {
			return RawConfig{}, fmt.Errorf("%s: include %q: %w", positions["include"], inc, err)
		}
		for _, p := range paths {
			incRaw, err := l.load(p)
			if err != nil {
				return RawConfig{}, err
			}
			merged = merged.merge(incRaw)
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	for key, src := range positions {
		l.sources[key] = src
	}
	l.files = append(l.files, file)
	return merged.merge(raw), nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// canonicalPath resolves symlinks when it can so that one file reached by
// two names is loaded once.
func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// expandInclude resolves an include entry relative to the including file.
// Directories contribute their *.yaml and *.yml files in name order.
func expandInclude(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		include = filepath.Join(home, strings.TrimPrefix(include, "~"))
	}
	if !filepath.IsAbs(include) {
		include = filepath.Join(filepath.Dir(from), include)
	}

	info, err := os.Stat(include)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{include}, nil
	}

	entries, err := os.ReadDir(include)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(include, ent.Name()))
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

// nodePositions maps every setting path in doc to the position of its
// value. Sequence items are keyed as "windows[0]".
func nodePositions(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	var walk func(n *yaml.Node, path string)
	walk = func(n *yaml.Node, path string) {
		switch n.Kind {
		case yaml.DocumentNode:
			for _, c := range n.Content {
				walk(c, path)
			}
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				key := n.Content[i].Value
				if path != "" {
					key = path + "." + key
				}
				val := n.Content[i+1]
				out[key] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
				walk(val, key)
			}
		case yaml.SequenceNode:
			for i, item := range n.Content {
				key := fmt.Sprintf("%s[%d]", path, i)
				out[key] = Source{Kind: SourceFile, File: file, Line: item.Line, Column: item.Column}
				walk(item, key)
			}
		}
	}
	walk(doc, "")
	return out
}
