// Package config loads the host configuration and resolves resource paths.
//
//	[engine]
//	schema = pinyin_simp
//	log_level = info
//	page_size = 5
//	resource_dir = /usr/share/pinyinime
//
//	[dictionaries]
//	extra = /home/me/extra.dict.yaml
//
//	[convert]
//	variant = simplified
//	table = /usr/share/opencc/TSCharacters.txt
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ini "github.com/go-ini/ini"
)

const (
	defaultSchema   = "pinyin_simp"
	defaultLogLevel = "info"
	defaultPageSize = 5
	defaultVariant  = "simplified"
)

type Config struct {
	Schema      string
	LogLevel    string
	PageSize    int
	ResourceDir string
	// Dictionaries maps dictionary names to files, overriding the resource
	// layout.
	Dictionaries map[string]string
	Variant      string
	ConvertTable string
}

func Default() Config {
	return Config{
		Schema:       defaultSchema,
		LogLevel:     defaultLogLevel,
		PageSize:     defaultPageSize,
		Dictionaries: map[string]string{},
		Variant:      defaultVariant,
	}
}

// Load reads an INI file. An empty path or a missing file yields the
// defaults. Relative paths inside the file are resolved against its
// directory.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config: %s is a directory", path)
	}

	file, err := ini.Load(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	return apply(cfg, file, filepath.Dir(path))
}

// Parse reads INI data. Relative paths are kept as written.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	file, err := ini.Load(data)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return apply(cfg, file, "")
}

func apply(cfg Config, file *ini.File, base string) (Config, error) {
	engine := file.Section("engine")
	cfg.Schema = engine.Key("schema").MustString(cfg.Schema)
	cfg.LogLevel = engine.Key("log_level").MustString(cfg.LogLevel)
	cfg.PageSize = engine.Key("page_size").MustInt(cfg.PageSize)
	cfg.ResourceDir = resolve(base, engine.Key("resource_dir").String())

	if cfg.PageSize < 1 || cfg.PageSize > 9 {
		return cfg, fmt.Errorf("config: page_size %d out of range 1..9", cfg.PageSize)
	}

	for _, k := range file.Section("dictionaries").Keys() {
		if k.Value() == "" {
			continue
		}
		cfg.Dictionaries[k.Name()] = resolve(base, k.Value())
	}

	conv := file.Section("convert")
	cfg.Variant = conv.Key("variant").MustString(cfg.Variant)
	cfg.ConvertTable = resolve(base, conv.Key("table").String())

	return cfg, nil
}

func resolve(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Paths is the resource layout below a root directory.
type Paths struct {
	Root string
}

func (p Paths) SchemasDir() string {
	return filepath.Join(p.Root, "schemas")
}

func (p Paths) DictsDir() string {
	return filepath.Join(p.Root, "dicts")
}

// OpenCCDir holds script conversion tables.
func (p Paths) OpenCCDir() string {
	return filepath.Join(p.Root, "opencc")
}

func (p Paths) SchemaPath(id string) string {
	return filepath.Join(p.SchemasDir(), id+".schema.yaml")
}

func (p Paths) DictPath(name string) string {
	return filepath.Join(p.DictsDir(), name+".dict.yaml")
}

// ListSchemas returns the schema ids found in the schemas directory.
func (p Paths) ListSchemas() ([]string, error) {
	return list(p.SchemasDir(), ".schema.yaml")
}

// ListDicts returns the dictionary names found in the dicts directory.
func (p Paths) ListDicts() ([]string, error) {
	return list(p.DictsDir(), ".dict.yaml")
}

func list(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), suffix); ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
