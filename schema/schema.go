// Package schema reads scheme descriptors written in the Rime schema layout.
//
//	schema:
//	  schema_id: pinyin_simp
//	  name: 简体拼音
//	engine:
//	  processors: [ascii_composer, speller, selector, express_editor]
//	  segmentors: [abc_segmentor]
//	  translators: [script_translator]
//	  filters: [single_char_filter]
//	speller:
//	  delimiter: " '"
//	  algebra:
//	    - derive/^zh/z/
//	translator:
//	  dictionary: pinyin_simp
//	menu:
//	  page_size: 5
//
// A Descriptor is read once and never modified afterwards, so it can be
// shared by any number of sessions.
package schema

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/kechako/pinyinime/doublepinyin"
)

// DefaultAlphabet is used when the speller declares none.
const DefaultAlphabet = "zyxwvutsrqponmlkjihgfedcba"

// DefaultPageSize is used when the menu declares none.
const DefaultPageSize = 5

type Type string

const (
	PinyinSimp   Type = "pinyin_simp"
	PinyinTrad   Type = "pinyin_trad"
	DoublePinyin Type = "double_pinyin"
)

type Info struct {
	ID           string   `yaml:"schema_id"`
	Name         string   `yaml:"name"`
	Version      string   `yaml:"version,omitempty"`
	Author       string   `yaml:"author,omitempty"`
	Description  string   `yaml:"description,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// Switch is a named on/off option. Reset is the initial state (1 = on).
type Switch struct {
	Name   string   `yaml:"name"`
	Reset  int      `yaml:"reset,omitempty"`
	States []string `yaml:"states,omitempty"`
}

type Engine struct {
	Processors  []string `yaml:"processors"`
	Segmentors  []string `yaml:"segmentors"`
	Translators []string `yaml:"translators"`
	Filters     []string `yaml:"filters,omitempty"`
}

type Speller struct {
	Alphabet  string   `yaml:"alphabet,omitempty"`
	Delimiter string   `yaml:"delimiter,omitempty"`
	Algebra   []string `yaml:"algebra,omitempty"`
	// DoublePinyin names the key layout of a double-pinyin scheme.
	DoublePinyin string `yaml:"double_pinyin,omitempty"`
}

type Translator struct {
	Dictionary string `yaml:"dictionary,omitempty"`
	Prism      string `yaml:"prism,omitempty"`
	// Dictionaries are consulted after Dictionary, in priority order.
	Dictionaries []string `yaml:"dictionaries,omitempty"`
	// FuzzyPenalty scales the weight of fuzzy matches, in (0, 1].
	FuzzyPenalty float64 `yaml:"fuzzy_penalty,omitempty"`
}

type Menu struct {
	PageSize      int `yaml:"page_size,omitempty"`
	MaxCandidates int `yaml:"max_candidates,omitempty"`
}

type Descriptor struct {
	Schema     Info       `yaml:"schema"`
	Switches   []Switch   `yaml:"switches,omitempty"`
	Engine     Engine     `yaml:"engine"`
	Speller    Speller    `yaml:"speller,omitempty"`
	Translator Translator `yaml:"translator,omitempty"`
	Menu       Menu       `yaml:"menu,omitempty"`
}

// Parse decodes a descriptor and validates it.
func Parse(r io.Reader) (*Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, &Error{Kind: "yaml", Reason: err.Error(), Err: err}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func ParseFile(name string) (*Descriptor, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return d, nil
}

// Marshal encodes the descriptor back into YAML.
func (d *Descriptor) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// ID returns the schema identifier.
func (d *Descriptor) ID() string {
	return d.Schema.ID
}

// Type classifies the scheme. A double-pinyin layout in the speller or a
// double_pinyin id makes it DoublePinyin; an id ending in _trad makes it
// PinyinTrad.
func (d *Descriptor) Type() Type {
	id := d.Schema.ID
	switch {
	case d.Speller.DoublePinyin != "", strings.HasPrefix(id, string(DoublePinyin)):
		return DoublePinyin
	case strings.HasSuffix(id, "_trad"):
		return PinyinTrad
	}
	return PinyinSimp
}

// DoublePinyinLayout returns the key layout of a double-pinyin scheme. The
// speller setting wins over the id suffix (double_pinyin_flypy); a bare
// double_pinyin id means Ziran, as in Rime.
func (d *Descriptor) DoublePinyinLayout() (*doublepinyin.Scheme, error) {
	if d.Type() != DoublePinyin {
		return nil, nil
	}

	name := d.Speller.DoublePinyin
	if name == "" {
		name = strings.TrimPrefix(strings.TrimPrefix(d.Schema.ID, string(DoublePinyin)), "_")
	}
	if name == "" {
		return doublepinyin.Ziran, nil
	}
	s, ok := doublepinyin.Lookup(name)
	if !ok {
		return nil, &Error{
			Schema: d.Schema.ID,
			Kind:   "speller",
			Reason: fmt.Sprintf("unknown double pinyin layout %q (known: %s)", name, strings.Join(doublepinyin.IDs(), ", ")),
		}
	}
	return s, nil
}

func (d *Descriptor) Alphabet() string {
	if d.Speller.Alphabet == "" {
		return DefaultAlphabet
	}
	return d.Speller.Alphabet
}

func (d *Descriptor) PageSize() int {
	if d.Menu.PageSize <= 0 {
		return DefaultPageSize
	}
	return d.Menu.PageSize
}

// Dictionaries returns the dictionary names of the translator, primary
// first, without duplicates.
func (d *Descriptor) Dictionaries() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, name := range append([]string{d.Translator.Dictionary}, d.Translator.Dictionaries...) {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Options returns the initial switch states.
func (d *Descriptor) Options() map[string]bool {
	opts := make(map[string]bool, len(d.Switches))
	for _, s := range d.Switches {
		if s.Name != "" {
			opts[s.Name] = s.Reset == 1
		}
	}
	return opts
}

// HasSwitch reports whether the schema declares a switch called name.
func (d *Descriptor) HasSwitch(name string) bool {
	for _, s := range d.Switches {
		if s.Name == name {
			return true
		}
	}
	return false
}

// StageList is one engine list with its stage kind.
type StageList struct {
	Kind  string
	Names []string
}

// StageLists returns the engine lists in pipeline order.
func (d *Descriptor) StageLists() []StageList {
	return []StageList{
		{Kind: KindProcessor, Names: d.Engine.Processors},
		{Kind: KindSegmentor, Names: d.Engine.Segmentors},
		{Kind: KindTranslator, Names: d.Engine.Translators},
		{Kind: KindFilter, Names: d.Engine.Filters},
	}
}

// Validate checks the structure of the descriptor. Whether the stage names
// resolve is decided when the pipeline is assembled.
func (d *Descriptor) Validate() error {
	fail := func(kind, reason string) error {
		return &Error{Schema: d.Schema.ID, Kind: kind, Reason: reason}
	}

	if strings.TrimSpace(d.Schema.ID) == "" {
		return fail("schema", "schema_id not set")
	}
	if len(d.Engine.Processors) == 0 {
		return fail("engine", "no processors")
	}
	if len(d.Engine.Segmentors) == 0 {
		return fail("engine", "no segmentors")
	}
	if len(d.Engine.Translators) == 0 {
		return fail("engine", "no translators")
	}
	for _, list := range d.StageLists() {
		for _, name := range list.Names {
			if strings.TrimSpace(name) == "" {
				return fail(list.Kind, "empty stage name")
			}
		}
	}
	if d.Menu.PageSize < 0 || d.Menu.PageSize > 9 {
		return fail("menu", fmt.Sprintf("page_size %d out of range 1..9", d.Menu.PageSize))
	}
	if d.Menu.MaxCandidates < 0 {
		return fail("menu", "max_candidates must be >= 0")
	}
	if p := d.Translator.FuzzyPenalty; p < 0 || p > 1 {
		return fail("translator", fmt.Sprintf("fuzzy_penalty %g out of range (0, 1]", p))
	}
	for _, c := range d.Speller.Delimiter {
		if strings.ContainsRune(d.Alphabet(), c) {
			return fail("speller", fmt.Sprintf("delimiter %q is part of the alphabet", c))
		}
	}
	if _, err := d.DoublePinyinLayout(); err != nil {
		return err
	}
	return nil
}
