package matcher

import (
	"regexp"

	"github.com/kechako/pinyinime/syllable"
)

// Position is where in a syllable an equivalence applies.
type Position int

const (
	Initial Position = iota
	Final
)

func (p Position) String() string {
	if p == Final {
		return "final"
	}
	return "initial"
}

// Equivalence declares two spellings interchangeable at one position. It
// applies in both directions.
type Equivalence struct {
	From     string
	To       string
	Position Position
}

var deriveRegexp = regexp.MustCompile(`^derive/(\^?)([a-z]+)(\$?)/([a-z]+)\$?/$`)

// ParseAlgebra reads the fuzzy equivalences out of speller algebra rules.
// "derive/^zh/z/" is an initial equivalence and "derive/an$/ang$/" a final
// one. Rules of any other form are returned in ignored.
func ParseAlgebra(rules []string) (eqs []Equivalence, ignored []string) {
	for _, rule := range rules {
		m := deriveRegexp.FindStringSubmatch(rule)
		if m == nil || (m[1] == "^") == (m[3] == "$") {
			ignored = append(ignored, rule)
			continue
		}
		eq := Equivalence{From: m[2], To: m[4], Position: Initial}
		if m[3] == "$" {
			eq.Position = Final
		}
		eqs = append(eqs, eq)
	}
	return eqs, ignored
}

// Variants returns the fuzzy-equivalent spellings of s, excluding s itself.
// A partial syllable only gets initial substitutions and its variants need
// only be syllable prefixes.
func Variants(s string, partial bool, eqs []Equivalence) []string {
	accept := syllable.Valid
	if partial {
		accept = syllable.IsPrefix
	}

	seen := map[string]struct{}{s: {}}
	forms := []string{s}
	add := func(v string) {
		if _, ok := seen[v]; ok || !accept(v) {
			return
		}
		seen[v] = struct{}{}
		forms = append(forms, v)
	}

	for _, eq := range eqs {
		if eq.Position != Initial {
			continue
		}
		initial, final := syllable.Split(s)
		switch initial {
		case eq.From:
			add(eq.To + final)
		case eq.To:
			add(eq.From + final)
		}
	}
	if !partial {
		for _, eq := range eqs {
			if eq.Position != Final {
				continue
			}
			for _, form := range append([]string(nil), forms...) {
				initial, final := syllable.Split(form)
				switch final {
				case eq.From:
					add(initial + eq.To)
				case eq.To:
					add(initial + eq.From)
				}
			}
		}
	}
	return forms[1:]
}
