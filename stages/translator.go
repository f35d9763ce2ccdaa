package stages

import (
	"errors"
	"fmt"

	"github.com/kechako/pinyinime/candidate"
	"github.com/kechako/pinyinime/dict"
	"github.com/kechako/pinyinime/matcher"
	"github.com/kechako/pinyinime/pipeline"
	"github.com/kechako/pinyinime/speller"
)

// EchoSource is the source of the raw input candidate.
const EchoSource = "echo"

func newABCSegmentor(deps *pipeline.Deps) (pipeline.Segmentor, error) {
	layout, err := deps.Schema.DoublePinyinLayout()
	if err != nil {
		return nil, err
	}

	opts := []speller.Option{speller.WithDelimiter(deps.Schema.Speller.Delimiter)}
	if layout != nil {
		opts = append(opts, speller.WithDoublePinyin(layout))
	}
	s, err := speller.New(opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// unavailableSource stands in for a secondary dictionary that failed to
// load. Every lookup fails, so the matcher skips it.
type unavailableSource struct {
	name string
	err  error
}

func (s unavailableSource) Name() string {
	return s.name
}

func (s unavailableSource) LookupExact([]string) ([]dict.Entry, error) {
	return nil, s.err
}

func (s unavailableSource) LookupPrefix([]string) ([]dict.Entry, error) {
	return nil, s.err
}

// scriptTranslator looks every split up in the schema dictionaries.
type scriptTranslator struct {
	matcher *matcher.Matcher
}

func newScriptTranslator(deps *pipeline.Deps) (pipeline.Translator, error) {
	names := deps.Schema.Dictionaries()
	if len(names) == 0 {
		return nil, errors.New("translator.dictionary not set")
	}
	if deps.Dictionaries == nil {
		return nil, errors.New("no dictionary loader")
	}

	sources := make([]dict.Source, 0, len(names))
	for i, name := range names {
		src, err := deps.Dictionaries.Dictionary(name)
		switch {
		case err == nil:
		case i == 0:
			return nil, fmt.Errorf("dictionary %s: %w", name, err)
		default:
			deps.Logger.WithField("stage", "script_translator").WithField("dictionary", name).WithError(err).Warn("dictionary not loaded")
			deps.Metrics.DictionaryError(name)
			src = unavailableSource{name: name, err: err}
		}
		sources = append(sources, src)
	}

	eqs, ignored := matcher.ParseAlgebra(deps.Schema.Speller.Algebra)
	for _, rule := range ignored {
		deps.Logger.WithField("stage", "script_translator").WithField("rule", rule).Warn("unsupported speller algebra, ignored")
	}

	opts := []matcher.Option{
		matcher.WithEquivalences(eqs...),
		matcher.WithLogger(deps.Logger),
		matcher.WithMetrics(deps.Metrics),
	}
	if p := deps.Schema.Translator.FuzzyPenalty; p > 0 {
		opts = append(opts, matcher.WithPenalty(p))
	}

	m := matcher.New(sources, opts...)
	deps.Logger.WithField("stage", "script_translator").WithField("dictionaries", m.Sources()).Debug("translator ready")
	return &scriptTranslator{matcher: m}, nil
}

// Translate returns the words covering a whole split. When no split has
// one, it falls back to the words for the longest leading syllables.
func (t *scriptTranslator) Translate(ctx *pipeline.Context) []candidate.Candidate {
	var out []candidate.Candidate
	for _, split := range ctx.Splits {
		mode := matcher.Exact
		if split.Partial() {
			mode = matcher.Prefix
		}
		out = withLength(out, t.matcher.Lookup(split.Syllables(), mode), split.End, len(ctx.Input))
	}
	if len(out) > 0 {
		return out
	}

	best := 0
	for _, split := range ctx.Splits {
		syllables := split.Syllables()
		for k := len(split.Spans) - 1; k > 0; k-- {
			end := split.Spans[k-1].End
			if end < best {
				break
			}
			found := t.matcher.Lookup(syllables[:k], matcher.Exact)
			if len(found) == 0 {
				continue
			}
			if end > best {
				best = end
				out = out[:0]
			}
			out = withLength(out, found, end, len(ctx.Input))
			break
		}
	}
	return out
}

// withLength appends cs, marking those that stop short of the input.
func withLength(dst, cs []candidate.Candidate, end, inputLen int) []candidate.Candidate {
	for _, c := range cs {
		if end < inputLen {
			c.Length = end
		}
		dst = append(dst, c)
	}
	return dst
}

// echoTranslator offers the raw input itself, below any dictionary word.
type echoTranslator struct{}

func newEchoTranslator(*pipeline.Deps) (pipeline.Translator, error) {
	return echoTranslator{}, nil
}

func (echoTranslator) Translate(ctx *pipeline.Context) []candidate.Candidate {
	if ctx.Input == "" {
		return nil
	}
	return []candidate.Candidate{{Text: ctx.Input, Source: EchoSource}}
}
