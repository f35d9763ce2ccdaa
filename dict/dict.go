// Package dict is an in-memory pinyin dictionary indexed by syllable code.
//
// A Dictionary is filled once (Read, Add, Build) and then only queried;
// concurrent queries are safe as long as nothing writes to it.
package dict

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/btree"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

type Encoding string

const (
	Auto    Encoding = ""
	UTF8    Encoding = "utf-8"
	GB18030 Encoding = "gb18030"
	GBK     Encoding = "gbk"
	Big5    Encoding = "big5"
)

func (e Encoding) isValid() bool {
	switch e {
	case UTF8, GB18030, GBK, Big5:
		return true
	}

	return false
}

func (e Encoding) toEncoding() encoding.Encoding {
	switch e {
	case GB18030:
		return simplifiedchinese.GB18030
	case GBK:
		return simplifiedchinese.GBK
	case Big5:
		return traditionalchinese.Big5
	}

	return nil
}

// Source is the query contract the matcher consumes. Syllables are
// canonical full-pinyin spellings; in LookupPrefix the last one may be a
// syllable prefix.
type Source interface {
	Name() string
	LookupExact(syllables []string) ([]Entry, error)
	LookupPrefix(syllables []string) ([]Entry, error)
}

type Dictionary struct {
	name      string
	delimiter string
	limit     int
	depth     int
	entries   *btree.BTreeG[*entry]
}

var _ Source = (*Dictionary)(nil)

type dicOptions struct {
	delimiter string
	limit     int
	depth     int
}

type Option interface {
	apply(*dicOptions)
}

type optionFunc func(*dicOptions)

func (f optionFunc) apply(opts *dicOptions) {
	f(opts)
}

func WithCommentDelimiter(delimiter string) Option {
	return optionFunc(func(opts *dicOptions) {
		opts.delimiter = delimiter
	})
}

// WithCompletionLimit bounds how many codes Complete returns and how many
// words LookupPrefix returns.
func WithCompletionLimit(n int) Option {
	return optionFunc(func(opts *dicOptions) {
		if n > 0 {
			opts.limit = n
		}
	})
}

// WithCompletionDepth sets how many syllables a completion may add beyond
// the queried ones.
func WithCompletionDepth(n int) Option {
	return optionFunc(func(opts *dicOptions) {
		if n >= 0 {
			opts.depth = n
		}
	})
}

func New(name string, opts ...Option) *Dictionary {
	options := dicOptions{
		delimiter: ",",
		limit:     64,
		depth:     1,
	}
	for _, opt := range opts {
		opt.apply(&options)
	}

	return &Dictionary{
		name:      name,
		delimiter: options.delimiter,
		limit:     options.limit,
		depth:     options.depth,
		entries:   btree.NewG(2, lessEntry),
	}
}

func (dic *Dictionary) Name() string {
	return dic.name
}

// Len returns the number of distinct codes.
func (dic *Dictionary) Len() int {
	return dic.entries.Len()
}

type writeOptions struct {
	encoding Encoding
}

type WriteOption interface {
	apply(*writeOptions)
}

type writeOptionFunc func(*writeOptions)

func (f writeOptionFunc) apply(opts *writeOptions) {
	f(opts)
}

func WithOutputEncoding(e Encoding) WriteOption {
	return writeOptionFunc(func(opts *writeOptions) {
		if e.isValid() {
			opts.encoding = e
		}
	})
}

// Write serializes the dictionary as a Rime style dict.yaml document.
func (dic *Dictionary) Write(w io.Writer, opts ...WriteOption) error {
	options := writeOptions{
		encoding: UTF8,
	}
	for _, opt := range opts {
		opt.apply(&options)
	}

	enc := options.encoding.toEncoding()

	var bw *bufio.Writer
	if enc == nil {
		bw = bufio.NewWriter(w)
	} else {
		bw = bufio.NewWriter(transform.NewWriter(w, enc.NewEncoder()))
	}

	var err error
	_, err = bw.WriteString("# -*- coding: " + string(options.encoding) + " -*-\n")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(bw, "---\nname: %s\nversion: \"1\"\nsort: by_weight\n...\n", dic.name)
	if err != nil {
		return err
	}

	dic.entries.Ascend(func(e *entry) bool {
		err = writeEntry(bw, e)
		return err == nil
	})
	if err != nil {
		return err
	}

	err = bw.Flush()
	if err != nil {
		return err
	}

	return nil
}

type MergeMode int

const (
	Add MergeMode = iota
	Sub
	And
)

type readOptions struct {
	encoding Encoding
}

type ReadOption interface {
	apply(*readOptions)
}

type readOptionFunc func(*readOptions)

func (f readOptionFunc) apply(opts *readOptions) {
	f(opts)
}

func WithInputEncoding(e Encoding) ReadOption {
	return readOptionFunc(func(opts *readOptions) {
		if e.isValid() {
			opts.encoding = e
		}
	})
}

func (dic *Dictionary) ReadFile(name string, mode MergeMode, opts ...ReadOption) error {
	if dic == nil {
		return errors.New("Dictionary is nil")
	}

	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := dic.Read(file, mode, opts...); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// Read merges a dict.yaml document into the dictionary. The YAML header, if
// any, ends at a line holding "..."; only its name key is used, to name an
// unnamed dictionary.
func (dic *Dictionary) Read(r io.Reader, mode MergeMode, opts ...ReadOption) error {
	if dic == nil {
		return errors.New("Dictionary is nil")
	}

	options := readOptions{
		encoding: Auto,
	}
	for _, opt := range opts {
		opt.apply(&options)
	}

	var reader io.Reader

	var enc encoding.Encoding
	if options.encoding == Auto {
		b := bufio.NewReader(r)
		first, err := b.ReadBytes('\n')
		if len(first) > 0 {
			enc = extractEncoding(string(first))
		}
		if err != nil && err != io.EOF {
			return err
		}

		if len(first) == 0 {
			reader = b
		} else {
			reader = io.MultiReader(bytes.NewReader(first), b)
		}
	} else {
		enc = options.encoding.toEncoding()
		reader = r
	}

	if enc != nil {
		reader = transform.NewReader(reader, enc.NewDecoder())
	}

	inHeader := false
	s := bufio.NewScanner(reader)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		switch {
		case line == "---":
			inHeader = true
			continue
		case line == "...":
			inHeader = false
			continue
		case inHeader:
			if name, ok := strings.CutPrefix(line, "name:"); ok && dic.name == "" {
				dic.name = strings.Trim(strings.TrimSpace(name), `"'`)
			}
			continue
		case line == "" || line[0] == '#':
			continue
		}

		code, w := parseLine(line)

		dic.process(code, []*Entry{w}, mode)
	}
	if err := s.Err(); err != nil {
		return err
	}

	if mode == And {
		dic.settle()
	}

	return nil
}

var magicRegexp = regexp.MustCompile(`-\*-.*[ \t]coding:[ \t]*([^ \t;]+?)[ \t;].*-\*-`)

func extractEncoding(line string) encoding.Encoding {
	matches := magicRegexp.FindStringSubmatch(line)
	if len(matches) < 2 {
		return nil
	}

	return Encoding(strings.ToLower(matches[1])).toEncoding()
}

func (dic *Dictionary) process(code string, words []*Entry, mode MergeMode) {
	if code == "" || len(words) == 0 {
		return
	}

	cur, found := dic.entries.Get(&entry{Code: code})
	switch mode {
	case Sub:
		if !found {
			return
		}
		for _, w := range words {
			cur.remove(w.Text)
		}
		if len(cur.Entries) == 0 {
			dic.entries.Delete(cur)
		}
	case And:
		if !found {
			return
		}
		for _, w := range words {
			cur.intersect(w)
		}
	default:
		if !found {
			cur = &entry{Code: code}
			dic.entries.ReplaceOrInsert(cur)
		}
		for _, w := range words {
			cur.add(w, dic.delimiter)
		}
	}
}

// settle ends an And merge: words the other dictionary did not share are
// dropped, and so are codes left empty.
func (dic *Dictionary) settle() {
	var empty []*entry
	dic.entries.Ascend(func(e *entry) bool {
		e.settle()
		if len(e.Entries) == 0 {
			empty = append(empty, e)
		}
		return true
	})
	for _, e := range empty {
		dic.entries.Delete(e)
	}
}

func (dic *Dictionary) processEntries(code string, entries []Entry, mode MergeMode) {
	normalized, ok := normalizeCode(code)
	if !ok {
		return
	}
	words := make([]*Entry, len(entries))
	for i := range entries {
		w := entries[i]
		words[i] = &w
	}
	dic.process(normalized, words, mode)
}

// AddEntries adds words under a space separated code. Codes holding invalid
// syllables are ignored.
func (dic *Dictionary) AddEntries(code string, entries ...Entry) {
	dic.processEntries(code, entries, Add)
}

func (dic *Dictionary) SubEntries(code string, entries ...Entry) {
	dic.processEntries(code, entries, Sub)
}

func (dic *Dictionary) RemoveEntries(code string) {
	normalized, ok := normalizeCode(code)
	if !ok {
		return
	}
	dic.entries.Delete(&entry{Code: normalized})
}

// Lookup returns copies of the words stored under code.
func (dic *Dictionary) Lookup(code string) []Entry {
	e, found := dic.entries.Get(&entry{Code: code})
	if !found {
		return nil
	}

	return copyEntries(nil, e.Entries, e.Code)
}

// Complete returns the codes starting with prefix, in code order.
func (dic *Dictionary) Complete(prefix string) []string {
	var completion []string

	dic.ascendPrefix(prefix, func(e *entry) bool {
		completion = append(completion, e.Code)
		return len(completion) < dic.limit
	})

	return completion
}

func (dic *Dictionary) ascendPrefix(prefix string, fn func(e *entry) bool) {
	dic.entries.AscendRange(&entry{Code: prefix}, &entry{Code: prefix + string(unicode.MaxRune)}, func(e *entry) bool {
		if strings.HasPrefix(e.Code, prefix) {
			return fn(e)
		}

		return false
	})
}

func (dic *Dictionary) LookupExact(syllables []string) ([]Entry, error) {
	if len(syllables) == 0 {
		return nil, nil
	}
	return dic.Lookup(joinCode(syllables)), nil
}

// LookupPrefix returns words whose code starts with the given syllables, the
// last one read as a prefix. Completions may run at most the configured
// depth of syllables past the query. The whole prefix range is scanned and
// the heaviest words up to the completion limit are returned, heaviest first.
func (dic *Dictionary) LookupPrefix(syllables []string) ([]Entry, error) {
	if len(syllables) == 0 {
		return nil, nil
	}

	maxSyllables := len(syllables) + dic.depth
	top := btree.NewG(2, heavier)
	dic.ascendPrefix(joinCode(syllables), func(e *entry) bool {
		if e.syllableCount() > maxSyllables {
			return true
		}
		for _, w := range copyEntries(nil, e.Entries, e.Code) {
			top.ReplaceOrInsert(w)
			if top.Len() > dic.limit {
				top.DeleteMax()
			}
		}
		return true
	})

	out := make([]Entry, 0, top.Len())
	top.Ascend(func(w Entry) bool {
		out = append(out, w)
		return true
	})
	return out, nil
}

// heavier orders words by descending weight, then by reading and text.
func heavier(a, b Entry) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	if a.Comment != b.Comment {
		return a.Comment < b.Comment
	}
	return a.Text < b.Text
}

// copyEntries appends value copies of src, filling empty comments with the
// code so every word carries its reading.
func copyEntries(dst []Entry, src []*Entry, code string) []Entry {
	for _, w := range src {
		c := *w
		if c.Comment == "" {
			c.Comment = code
		}
		dst = append(dst, c)
	}
	return dst
}
