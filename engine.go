// Package pinyinime is the composition core of a pinyin input method. An
// Engine holds the active scheme and its assembled pipeline; each input
// context owns a Session that turns key events into committed text.
package pinyinime

import (
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/kechako/pinyinime/config"
	"github.com/kechako/pinyinime/convert"
	"github.com/kechako/pinyinime/dict"
	"github.com/kechako/pinyinime/internal/metrics"
	"github.com/kechako/pinyinime/pipeline"
	"github.com/kechako/pinyinime/schema"
	"github.com/kechako/pinyinime/stages"
)

type options struct {
	registry  *pipeline.Registry
	sources   []dict.Source
	files     map[string]string
	root      string
	converter convert.Converter
	variant   convert.Variant
	pageSize  int
	logger    log.FieldLogger
	metrics   *metrics.Metrics
}

type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(opts *options) {
	f(opts)
}

// WithRegistry replaces the built-in stage registry.
func WithRegistry(reg *pipeline.Registry) Option {
	return optionFunc(func(opts *options) {
		if reg != nil {
			opts.registry = reg
		}
	})
}

// WithDictionary makes an in-memory source available under its name.
func WithDictionary(src dict.Source) Option {
	return optionFunc(func(opts *options) {
		if src != nil {
			opts.sources = append(opts.sources, src)
		}
	})
}

// WithDictionaryFile maps a dictionary name to a dict.yaml file, read on
// first use.
func WithDictionaryFile(name, path string) Option {
	return optionFunc(func(opts *options) {
		opts.files[name] = path
	})
}

// WithResourceDir sets the root of the schemas/ and dicts/ directories.
func WithResourceDir(dir string) Option {
	return optionFunc(func(opts *options) {
		opts.root = dir
	})
}

// WithConverter sets the script converter used by the simplifier and the
// variant it converts to.
func WithConverter(c convert.Converter, target convert.Variant) Option {
	return optionFunc(func(opts *options) {
		opts.converter = c
		opts.variant = target
	})
}

// WithPageSize sets the menu page size for schemas that declare none.
func WithPageSize(n int) Option {
	return optionFunc(func(opts *options) {
		if n > 0 {
			opts.pageSize = n
		}
	})
}

func WithLogger(logger log.FieldLogger) Option {
	return optionFunc(func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	})
}

func WithMetrics(m *metrics.Metrics) Option {
	return optionFunc(func(opts *options) {
		opts.metrics = m
	})
}

// installed is one successfully loaded scheme.
type installed struct {
	pipeline   *pipeline.Pipeline
	generation uint64
}

// Engine is safe for concurrent use. Loading a scheme replaces the
// pipeline atomically; sessions notice on their next call and reset.
type Engine struct {
	registry *pipeline.Registry
	deps     pipeline.Deps
	paths    config.Paths
	pageSize int
	logger   log.FieldLogger
	metrics  *metrics.Metrics

	loadMu  sync.Mutex
	current atomic.Pointer[installed]
}

func New(opts ...Option) *Engine {
	options := options{
		files:  make(map[string]string),
		logger: log.StandardLogger(),
	}
	for _, opt := range opts {
		opt.apply(&options)
	}
	if options.registry == nil {
		options.registry = stages.NewRegistry()
	}

	loader := &dictionaryLoader{
		sources: make(map[string]dict.Source),
		files:   options.files,
		logger:  options.logger,
	}
	if options.root != "" {
		loader.paths = &config.Paths{Root: options.root}
	}
	for _, src := range options.sources {
		loader.sources[src.Name()] = src
	}

	return &Engine{
		registry: options.registry,
		deps: pipeline.Deps{
			Dictionaries: loader,
			Converter:    options.converter,
			Variant:      options.variant,
			Logger:       options.logger,
			Metrics:      options.metrics,
		},
		paths:    config.Paths{Root: options.root},
		pageSize: options.pageSize,
		logger:   options.logger,
		metrics:  options.metrics,
	}
}

// LoadScheme assembles desc and installs it. On error the previously
// installed scheme, if any, stays active and the error is a *schema.Error
// for schema problems.
func (e *Engine) LoadScheme(desc *schema.Descriptor) error {
	if desc == nil {
		return &schema.Error{Kind: "schema", Reason: "no descriptor"}
	}

	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	p, err := pipeline.Assemble(desc, e.registry, e.deps)
	if err != nil {
		e.metrics.SchemeLoad("error")
		e.logger.WithError(err).WithField("schema", desc.ID()).Error("scheme load failed")
		return err
	}

	next := &installed{pipeline: p, generation: 1}
	if prev := e.current.Load(); prev != nil {
		next.generation = prev.generation + 1
	}
	e.current.Store(next)

	e.metrics.SchemeLoad("ok")
	e.logger.WithField("schema", desc.ID()).Debug("pipeline installed")
	return nil
}

// LoadSchemeFile parses and installs a schema file.
func (e *Engine) LoadSchemeFile(path string) error {
	desc, err := schema.ParseFile(path)
	if err != nil {
		e.metrics.SchemeLoad("error")
		return err
	}
	return e.LoadScheme(desc)
}

// SelectScheme installs the schema with the given id from the resource
// directory.
func (e *Engine) SelectScheme(id string) error {
	if e.paths.Root == "" {
		return fmt.Errorf("scheme %s: no resource directory", id)
	}
	return e.LoadSchemeFile(e.paths.SchemaPath(id))
}

// Schema returns the active descriptor, or nil before the first load.
func (e *Engine) Schema() *schema.Descriptor {
	cur := e.current.Load()
	if cur == nil {
		return nil
	}
	return cur.pipeline.Schema()
}

// NewSession returns an idle session bound to the engine.
func (e *Engine) NewSession() *Session {
	return &Session{engine: e}
}

// dictionaryLoader hands out dictionaries by name, reading files on first
// use. Loaded dictionaries are shared by every scheme.
type dictionaryLoader struct {
	mu      sync.Mutex
	sources map[string]dict.Source
	files   map[string]string
	paths   *config.Paths
	logger  log.FieldLogger
}

func (l *dictionaryLoader) Dictionary(name string) (dict.Source, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if src, ok := l.sources[name]; ok {
		return src, nil
	}

	path, ok := l.files[name]
	if !ok {
		if l.paths == nil {
			return nil, fmt.Errorf("dictionary %s not found", name)
		}
		path = l.paths.DictPath(name)
	}

	d := dict.New(name)
	if err := d.ReadFile(path, dict.Add); err != nil {
		return nil, err
	}
	l.sources[name] = d

	l.logger.WithFields(log.Fields{
		"dictionary": name,
		"entries":    d.Len(),
	}).Info("dictionary loaded")
	return d, nil
}
