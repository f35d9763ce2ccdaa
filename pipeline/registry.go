package pipeline

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/kechako/pinyinime/convert"
	"github.com/kechako/pinyinime/dict"
	"github.com/kechako/pinyinime/internal/metrics"
	"github.com/kechako/pinyinime/schema"
)

// DictionaryLoader resolves the dictionary names a schema refers to.
type DictionaryLoader interface {
	Dictionary(name string) (dict.Source, error)
}

// Deps is what a stage factory may build from.
type Deps struct {
	Schema       *schema.Descriptor
	Dictionaries DictionaryLoader
	Converter    convert.Converter
	Variant      convert.Variant
	Logger       log.FieldLogger
	Metrics      *metrics.Metrics
}

type NewProcessor func(deps *Deps) (Processor, error)

type NewSegmentor func(deps *Deps) (Segmentor, error)

type NewTranslator func(deps *Deps) (Translator, error)

type NewFilter func(deps *Deps) (Filter, error)

// Registry maps stage names to factories, one table per stage kind.
type Registry struct {
	Processors  map[string]NewProcessor
	Segmentors  map[string]NewSegmentor
	Translators map[string]NewTranslator
	Filters     map[string]NewFilter
}

func NewRegistry() *Registry {
	return &Registry{
		Processors:  make(map[string]NewProcessor),
		Segmentors:  make(map[string]NewSegmentor),
		Translators: make(map[string]NewTranslator),
		Filters:     make(map[string]NewFilter),
	}
}

// Has reports whether a stage of kind is registered under name. A Rime
// style "@label" suffix is ignored.
func (r *Registry) Has(kind, name string) bool {
	name = stageName(name)
	var ok bool
	switch kind {
	case schema.KindProcessor:
		_, ok = r.Processors[name]
	case schema.KindSegmentor:
		_, ok = r.Segmentors[name]
	case schema.KindTranslator:
		_, ok = r.Translators[name]
	case schema.KindFilter:
		_, ok = r.Filters[name]
	}
	return ok
}

// Names returns the registered names of kind, sorted.
func (r *Registry) Names(kind string) []string {
	var names []string
	switch kind {
	case schema.KindProcessor:
		for name := range r.Processors {
			names = append(names, name)
		}
	case schema.KindSegmentor:
		for name := range r.Segmentors {
			names = append(names, name)
		}
	case schema.KindTranslator:
		for name := range r.Translators {
			names = append(names, name)
		}
	case schema.KindFilter:
		for name := range r.Filters {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func stageName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '@'); i >= 0 {
		return name[:i]
	}
	return name
}
