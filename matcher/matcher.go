// Package matcher resolves syllable sequences to candidates across one or
// more dictionary sources, with optional fuzzy-equivalent spellings.
package matcher

import (
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kechako/pinyinime/candidate"
	"github.com/kechako/pinyinime/dict"
	"github.com/kechako/pinyinime/internal/metrics"
)

// Mode selects how the last syllable is matched.
type Mode int

const (
	Exact Mode = iota
	// Prefix reads the last syllable as a prefix and allows completions.
	Prefix
)

func (m Mode) String() string {
	if m == Prefix {
		return "prefix"
	}
	return "exact"
}

// DefaultPenalty scales the weight of fuzzy matches.
const DefaultPenalty = 0.5

// UnavailableError reports a source that failed to answer a lookup.
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("dictionary %s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Completer is implemented by sources that can list codes by prefix.
type Completer interface {
	Complete(prefix string) []string
}

type options struct {
	eqs          []Equivalence
	penalty      float64
	maxExpansion int
	logger       log.FieldLogger
	metrics      *metrics.Metrics
}

type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(opts *options) {
	f(opts)
}

func WithEquivalences(eqs ...Equivalence) Option {
	return optionFunc(func(opts *options) {
		opts.eqs = append(opts.eqs, eqs...)
	})
}

// WithPenalty sets the fuzzy weight factor; values outside (0, 1] are
// ignored.
func WithPenalty(p float64) Option {
	return optionFunc(func(opts *options) {
		if p > 0 && p <= 1 {
			opts.penalty = p
		}
	})
}

// WithMaxExpansion bounds how many fuzzy sequences one lookup may query.
func WithMaxExpansion(n int) Option {
	return optionFunc(func(opts *options) {
		if n >= 0 {
			opts.maxExpansion = n
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

// Matcher is read-only after New and safe for concurrent use when its
// sources are.
type Matcher struct {
	sources      []dict.Source
	eqs          []Equivalence
	penalty      float64
	maxExpansion int
	logger       log.FieldLogger
	metrics      *metrics.Metrics
}

// New returns a matcher over sources, listed in priority order.
func New(sources []dict.Source, opts ...Option) *Matcher {
	options := options{
		penalty:      DefaultPenalty,
		maxExpansion: 16,
		logger:       log.StandardLogger(),
	}
	for _, opt := range opts {
		opt.apply(&options)
	}

	return &Matcher{
		sources:      append([]dict.Source(nil), sources...),
		eqs:          options.eqs,
		penalty:      options.penalty,
		maxExpansion: options.maxExpansion,
		logger:       options.logger,
		metrics:      options.metrics,
	}
}

// Sources returns the source names in priority order.
func (m *Matcher) Sources() []string {
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.Name()
	}
	return names
}

// Lookup queries every source for syllables. Exact-spelling matches come
// first; fuzzy ones follow with a penalized weight and a source tagged with
// candidate.FuzzyTag. A failing source is logged and contributes nothing.
func (m *Matcher) Lookup(syllables []string, mode Mode) []candidate.Candidate {
	if len(syllables) == 0 {
		return nil
	}
	defer m.metrics.ObserveLookup(time.Now())

	fuzzy := m.expand(syllables, mode == Prefix)

	var exact, approx []candidate.Candidate
	for _, src := range m.sources {
		entries, err := m.query(src, syllables, mode)
		if err != nil {
			continue
		}
		exact = appendCandidates(exact, entries, src.Name(), m.identity)

		for _, seq := range fuzzy {
			entries, err := m.query(src, seq, mode)
			if err != nil {
				break
			}
			approx = appendCandidates(approx, entries, src.Name()+candidate.FuzzyTag, m.penalize)
		}
	}
	return append(exact, approx...)
}

func (m *Matcher) query(src dict.Source, syllables []string, mode Mode) ([]dict.Entry, error) {
	m.metrics.Lookup(src.Name(), mode.String())

	var entries []dict.Entry
	var err error
	if mode == Prefix {
		entries, err = src.LookupPrefix(syllables)
	} else {
		entries, err = src.LookupExact(syllables)
	}
	if err != nil {
		uerr := &UnavailableError{Source: src.Name(), Err: err}
		m.metrics.DictionaryError(src.Name())
		m.logger.WithError(uerr).WithField("dictionary", src.Name()).Warn("dictionary lookup failed")
		return nil, uerr
	}
	return entries, nil
}

// expand returns the fuzzy sequences of syllables, without the original.
func (m *Matcher) expand(syllables []string, partialLast bool) [][]string {
	if len(m.eqs) == 0 || m.maxExpansion == 0 {
		return nil
	}

	seqs := [][]string{nil}
	for i, s := range syllables {
		forms := append([]string{s}, Variants(s, partialLast && i == len(syllables)-1, m.eqs)...)
		next := make([][]string, 0, len(seqs)*len(forms))
		for _, seq := range seqs {
			for _, f := range forms {
				if len(next) > m.maxExpansion {
					break
				}
				out := make([]string, 0, len(syllables))
				out = append(out, seq...)
				next = append(next, append(out, f))
			}
		}
		seqs = next
	}

	// the first product is the unchanged sequence
	seqs = seqs[1:]
	if len(seqs) > m.maxExpansion {
		seqs = seqs[:m.maxExpansion]
	}
	return seqs
}

func (m *Matcher) identity(w uint32) uint32 {
	return w
}

// penalize scales w, keeping a positive weight strictly above its fuzzy
// counterpart.
func (m *Matcher) penalize(w uint32) uint32 {
	p := uint32(float64(w) * m.penalty)
	if w > 0 && p >= w {
		p = w - 1
	}
	return p
}

func appendCandidates(dst []candidate.Candidate, entries []dict.Entry, source string, weight func(uint32) uint32) []candidate.Candidate {
	for _, e := range entries {
		dst = append(dst, candidate.Candidate{
			Text:    e.Text,
			Comment: e.Comment,
			Weight:  weight(e.Weight),
			Source:  source,
		})
	}
	return dst
}

// Complete returns the codes starting with prefix across all sources that
// support completion, sorted and without duplicates.
func (m *Matcher) Complete(prefix string) []string {
	if prefix == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, src := range m.sources {
		c, ok := src.(Completer)
		if !ok {
			continue
		}
		for _, code := range c.Complete(prefix) {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}
