package pipeline

import (
	log "github.com/sirupsen/logrus"

	"github.com/kechako/pinyinime/candidate"
	"github.com/kechako/pinyinime/key"
	"github.com/kechako/pinyinime/schema"
)

// Pipeline is an assembled stage sequence. It is immutable and may be used
// by many sessions at once, provided its stages are.
type Pipeline struct {
	schema      *schema.Descriptor
	processors  []Processor
	segmentors  []Segmentor
	translators []Translator
	filters     []Filter
	ranker      candidate.Ranker
	logger      log.FieldLogger
}

// Assemble resolves every stage the schema names and builds the pipeline.
// All names are checked before any stage is built; on failure it returns a
// *schema.Error and no pipeline.
func Assemble(desc *schema.Descriptor, reg *Registry, deps Deps) (*Pipeline, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	for _, list := range desc.StageLists() {
		for _, name := range list.Names {
			if !reg.Has(list.Kind, name) {
				return nil, &schema.Error{
					Schema: desc.ID(),
					Stage:  name,
					Kind:   list.Kind,
					Reason: "not registered",
				}
			}
		}
	}

	deps.Schema = desc
	if deps.Logger == nil {
		deps.Logger = log.StandardLogger()
	}
	logger := deps.Logger.WithField("schema", desc.ID())
	deps.Logger = logger

	p := &Pipeline{
		schema: desc,
		ranker: candidate.Ranker{
			MaxCandidates: desc.Menu.MaxCandidates,
			Priority:      desc.Dictionaries(),
		},
		logger: logger,
	}

	fail := func(kind, name string, err error) error {
		return &schema.Error{Schema: desc.ID(), Stage: name, Kind: kind, Reason: err.Error(), Err: err}
	}

	for _, name := range desc.Engine.Processors {
		s, err := reg.Processors[stageName(name)](&deps)
		if err != nil {
			return nil, fail(schema.KindProcessor, name, err)
		}
		p.processors = append(p.processors, s)
	}
	for _, name := range desc.Engine.Segmentors {
		s, err := reg.Segmentors[stageName(name)](&deps)
		if err != nil {
			return nil, fail(schema.KindSegmentor, name, err)
		}
		p.segmentors = append(p.segmentors, s)
	}
	for _, name := range desc.Engine.Translators {
		s, err := reg.Translators[stageName(name)](&deps)
		if err != nil {
			return nil, fail(schema.KindTranslator, name, err)
		}
		p.translators = append(p.translators, s)
	}
	for _, name := range desc.Engine.Filters {
		s, err := reg.Filters[stageName(name)](&deps)
		if err != nil {
			return nil, fail(schema.KindFilter, name, err)
		}
		p.filters = append(p.filters, s)
	}

	logger.WithFields(log.Fields{
		"processors":  len(p.processors),
		"segmentors":  len(p.segmentors),
		"translators": len(p.translators),
		"filters":     len(p.filters),
	}).Debug("pipeline assembled")

	return p, nil
}

func (p *Pipeline) Schema() *schema.Descriptor {
	return p.schema
}

// ProcessKey offers ev to the processors in order. The first result other
// than Noop wins.
func (p *Pipeline) ProcessKey(ed Editor, ev key.Event) Result {
	for _, proc := range p.processors {
		if r := proc.ProcessKey(ed, ev); r != Noop {
			return r
		}
	}
	return Noop
}

// Run segments ctx.Input, translates it, merges the results and applies
// the filters. A filter that drops or adds candidates is skipped.
func (p *Pipeline) Run(ctx *Context) candidate.List {
	ctx.Splits = nil
	if ctx.Input == "" {
		return nil
	}

	for _, s := range p.segmentors {
		ctx.Splits = append(ctx.Splits, s.Segment(ctx.Input)...)
	}

	sets := make([][]candidate.Candidate, 0, len(p.translators))
	for _, t := range p.translators {
		sets = append(sets, t.Translate(ctx))
	}
	list := p.ranker.Merge(sets...)

	for i, f := range p.filters {
		out := f.Filter(ctx, list)
		if len(out) != len(list) {
			p.logger.WithFields(log.Fields{
				"stage": p.schema.Engine.Filters[i],
				"input": ctx.Input,
			}).Warn("filter changed the candidate count, ignored")
			continue
		}
		list = out
	}
	return list
}
