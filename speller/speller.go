// Package speller cuts raw keystrokes into candidate syllable splits.
package speller

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kechako/pinyinime/doublepinyin"
	"github.com/kechako/pinyinime/syllable"
)

// Span is one syllable over raw input bytes [Start, End).
type Span struct {
	Start    int
	End      int
	Syllable string
	// Partial marks a trailing span that is only a syllable prefix.
	Partial bool
}

// Split is one way of cutting the input into syllables.
type Split struct {
	Spans []Span
	// End is the number of raw input bytes the split covers.
	End int
}

// Syllables returns the syllable of every span.
func (s Split) Syllables() []string {
	out := make([]string, len(s.Spans))
	for i, sp := range s.Spans {
		out[i] = sp.Syllable
	}
	return out
}

// Partial reports whether the last span is incomplete.
func (s Split) Partial() bool {
	return endsPartial(s.Spans)
}

func (s Split) String() string {
	var b strings.Builder
	for i, sp := range s.Spans {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sp.Syllable)
		if sp.Partial {
			b.WriteByte('*')
		}
	}
	return b.String()
}

type options struct {
	delimiter string
	scheme    *doublepinyin.Scheme
	maxSplits int
	cacheSize int
}

// Option configures a Segmenter.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(opts *options) {
	f(opts)
}

// WithDelimiter sets the characters that force a syllable boundary.
func WithDelimiter(delimiter string) Option {
	return optionFunc(func(opts *options) {
		opts.delimiter = delimiter
	})
}

// WithDoublePinyin switches the segmenter to two-key decoding.
func WithDoublePinyin(s *doublepinyin.Scheme) Option {
	return optionFunc(func(opts *options) {
		opts.scheme = s
	})
}

// WithMaxSplits bounds the number of alternative splits returned.
func WithMaxSplits(n int) Option {
	return optionFunc(func(opts *options) {
		if n > 0 {
			opts.maxSplits = n
		}
	})
}

// WithCacheSize sets the size of the split memo. Zero disables it.
func WithCacheSize(n int) Option {
	return optionFunc(func(opts *options) {
		if n >= 0 {
			opts.cacheSize = n
		}
	})
}

// Segmenter is safe for concurrent use.
type Segmenter struct {
	delimiter string
	scheme    *doublepinyin.Scheme
	maxSplits int
	cache     *lru.Cache[string, []Split]
}

// New returns a full-pinyin segmenter unless WithDoublePinyin is given.
func New(opts ...Option) (*Segmenter, error) {
	options := options{
		maxSplits: 64,
		cacheSize: 256,
	}
	for _, opt := range opts {
		opt.apply(&options)
	}

	s := &Segmenter{
		delimiter: options.delimiter,
		scheme:    options.scheme,
		maxSplits: options.maxSplits,
	}
	if options.cacheSize > 0 {
		cache, err := lru.New[string, []Split](options.cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	return s, nil
}

// DoublePinyin returns the active double-pinyin scheme, or nil.
func (s *Segmenter) DoublePinyin() *doublepinyin.Scheme {
	return s.scheme
}

// Delimiter returns the boundary characters.
func (s *Segmenter) Delimiter() string {
	return s.delimiter
}

// Segment returns every structurally valid split of raw. Splits are not
// ranked, but the order is stable: complete splits before partial ones,
// fewer syllables first. The returned slice is shared and must not be
// modified. No split means the input cannot be read as pinyin.
func (s *Segmenter) Segment(raw string) []Split {
	if raw == "" {
		return nil
	}
	if s.cache != nil {
		if splits, ok := s.cache.Get(raw); ok {
			return splits
		}
	}

	var splits []Split
	if s.scheme != nil {
		splits = s.segmentDouble(raw)
	} else {
		splits = s.segmentFull(raw)
	}

	if s.cache != nil {
		s.cache.Add(raw, splits)
	}
	return splits
}

type chunk struct {
	offset int
	text   string
}

func (s *Segmenter) chunks(raw string) []chunk {
	var out []chunk
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i < len(raw) && (s.delimiter == "" || !strings.ContainsRune(s.delimiter, rune(raw[i]))) {
			continue
		}
		if i > start {
			out = append(out, chunk{offset: start, text: raw[start:i]})
		}
		start = i + 1
	}
	return out
}

func (s *Segmenter) segmentFull(raw string) []Split {
	paths := [][]Span{nil}
	for _, c := range s.chunks(raw) {
		sub := s.segmentChunk(c)
		if len(sub) == 0 {
			return nil
		}
		paths = s.product(paths, sub)
	}

	splits := make([]Split, 0, len(paths))
	for _, p := range paths {
		if len(p) == 0 {
			continue
		}
		splits = append(splits, Split{Spans: p, End: len(raw)})
	}
	sortSplits(splits)
	return splits
}

// segmentChunk explores cut positions right to left, memoizing the splits of
// every suffix so shared tails are computed once.
func (s *Segmenter) segmentChunk(c chunk) [][]Span {
	n := len(c.text)
	memo := make([][][]Span, n+1)
	memo[n] = [][]Span{nil}

	for i := n - 1; i >= 0; i-- {
		var paths [][]Span
		for j := i + 1; j <= n && j-i <= syllable.MaxLen; j++ {
			sub := c.text[i:j]
			span := Span{Start: c.offset + i, End: c.offset + j, Syllable: sub}
			switch {
			case syllable.Valid(sub):
				for _, rest := range memo[j] {
					path := make([]Span, 0, len(rest)+1)
					path = append(path, span)
					paths = append(paths, append(path, rest...))
				}
			case j == n && syllable.IsPrefix(sub):
				span.Partial = true
				paths = append(paths, []Span{span})
			}
		}
		memo[i] = s.keep(paths)
	}
	return memo[0]
}

// keep orders paths complete first, then by syllable count, and drops those
// past maxSplits. The fewest-syllable path of every suffix always survives.
func (s *Segmenter) keep(paths [][]Span) [][]Span {
	sort.SliceStable(paths, func(i, j int) bool {
		pi, pj := endsPartial(paths[i]), endsPartial(paths[j])
		if pi != pj {
			return !pi
		}
		return len(paths[i]) < len(paths[j])
	})
	if len(paths) > s.maxSplits {
		paths = paths[:s.maxSplits]
	}
	return paths
}

func endsPartial(p []Span) bool {
	return len(p) > 0 && p[len(p)-1].Partial
}

func (s *Segmenter) product(heads, tails [][]Span) [][]Span {
	out := make([][]Span, 0, len(heads)*len(tails))
	for _, h := range heads {
		// a partial span may only end the whole input
		if endsPartial(h) {
			continue
		}
		for _, t := range tails {
			path := make([]Span, 0, len(h)+len(t))
			path = append(path, h...)
			out = append(out, append(path, t...))
		}
	}
	return s.keep(out)
}

func (s *Segmenter) segmentDouble(raw string) []Split {
	paths := [][]Span{nil}
	covered := 0

outer:
	for _, c := range s.chunks(raw) {
		for i := 0; i < len(c.text); i += 2 {
			var options []Span
			if i+1 < len(c.text) {
				decoded, err := doublepinyin.Decode(s.scheme, c.text[i:i+2])
				if err != nil {
					break outer
				}
				for _, syl := range decoded {
					options = append(options, Span{Start: c.offset + i, End: c.offset + i + 2, Syllable: syl})
				}
			} else {
				for _, p := range doublepinyin.Partial(s.scheme, c.text[i]) {
					options = append(options, Span{Start: c.offset + i, End: c.offset + i + 1, Syllable: p, Partial: true})
				}
				if len(options) == 0 {
					break outer
				}
			}

			tails := make([][]Span, len(options))
			for k, o := range options {
				tails[k] = []Span{o}
			}
			next := s.product(paths, tails)
			if len(next) == 0 {
				break outer
			}
			paths = next
			covered = options[0].End
		}
	}

	splits := make([]Split, 0, len(paths))
	for _, p := range paths {
		if len(p) == 0 {
			continue
		}
		splits = append(splits, Split{Spans: p, End: covered})
	}
	sortSplits(splits)
	return splits
}

func sortSplits(splits []Split) {
	sort.SliceStable(splits, func(i, j int) bool {
		pi, pj := splits[i].Partial(), splits[j].Partial()
		if pi != pj {
			return !pi
		}
		return len(splits[i].Spans) < len(splits[j].Spans)
	})
}
