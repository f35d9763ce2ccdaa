package dict

import (
	"strings"

	"github.com/kechako/pinyinime/syllable"
)

// normalizeCode lower-cases a code, collapses whitespace and rewrites every
// syllable into canonical spelling. It returns false when any syllable is
// not valid pinyin.
func normalizeCode(code string) (string, bool) {
	fields := strings.Fields(strings.ToLower(code))
	if len(fields) == 0 {
		return "", false
	}
	for i, f := range fields {
		f = syllable.Normalize(f)
		if !syllable.Valid(f) {
			return "", false
		}
		fields[i] = f
	}
	return strings.Join(fields, " "), true
}

func joinCode(syllables []string) string {
	return strings.Join(syllables, " ")
}

func countSyllables(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, " ") + 1
}
