package doublepinyin

import (
	"errors"
	"sort"

	"github.com/kechako/pinyinime/syllable"
)

// ErrInvalidInput is returned when a key pair maps to no syllable. Callers
// treat it as zero results rather than a failure.
var ErrInvalidInput = errors.New("doublepinyin: invalid input")

// Decode expands a two-key code into every valid full-pinyin syllable the
// scheme allows for it. The result is sorted and carries no preference.
func Decode(s *Scheme, code string) ([]string, error) {
	if s == nil || len(code) != 2 {
		return nil, ErrInvalidInput
	}

	set := make(map[string]struct{})
	if z, ok := s.ZeroInitial[code]; ok && syllable.Valid(z) {
		set[z] = struct{}{}
	}
	for _, initial := range s.Initials[code[0]] {
		for _, final := range s.Finals[code[1]] {
			candidate := syllable.Normalize(initial + final)
			if syllable.Valid(candidate) {
				set[candidate] = struct{}{}
			}
		}
	}

	if len(set) == 0 {
		return nil, ErrInvalidInput
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// Partial returns the syllable prefixes a lone first key can begin: its
// consonants, plus the leading letters of the zero-initial syllables it
// introduces.
func Partial(s *Scheme, key byte) []string {
	if s == nil {
		return nil
	}
	set := make(map[string]struct{})
	for _, initial := range s.Initials[key] {
		set[initial] = struct{}{}
	}
	for code, z := range s.ZeroInitial {
		if code[0] == key {
			set[z[:1]] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
