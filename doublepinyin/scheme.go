// Package doublepinyin expands two-key double-pinyin codes into full pinyin
// syllables.
package doublepinyin

import (
	"sort"
	"strings"
)

// Scheme is a fixed key table. It is immutable once built and safe for
// concurrent readers.
type Scheme struct {
	ID   string
	Name string

	// Initials maps the first key of a pair to the consonants it stands for.
	Initials map[byte][]string
	// Finals maps the second key of a pair to the finals it stands for.
	Finals map[byte][]string
	// ZeroInitial maps whole two-key codes directly to syllables that have no
	// leading consonant.
	ZeroInitial map[string]string
}

func plainInitials() map[byte][]string {
	m := map[byte][]string{
		'v': {"zh"},
		'i': {"ch"},
		'u': {"sh"},
	}
	for _, c := range "bpmfdtnlgkhjqxrzcsyw" {
		m[byte(c)] = []string{string(c)}
	}
	return m
}

func parseFinals(spec string) map[byte][]string {
	m := make(map[byte][]string)
	for _, item := range strings.Split(spec, ",") {
		fields := strings.Fields(item)
		if len(fields) < 2 {
			continue
		}
		m[fields[0][0]] = append(m[fields[0][0]], fields[1:]...)
	}
	return m
}

func parseZero(spec string) map[string]string {
	m := make(map[string]string)
	for _, item := range strings.Split(spec, ",") {
		fields := strings.Fields(item)
		if len(fields) != 2 {
			continue
		}
		m[fields[0]] = fields[1]
	}
	return m
}

const (
	vowelZero = "aa a, ai ai, an an, ah ang, ao ao, ee e, ei ei, en en, eg eng, er er, oo o, ou ou"
	oZero     = "oa a, ol ai, oj an, oh ang, ok ao, oe e, oz ei, of en, og eng, or er, oo o, ob ou"
)

var (
	// XiaoHe is the 小鹤双拼 layout.
	XiaoHe = &Scheme{
		ID:       "xiaohe",
		Name:     "小鹤双拼",
		Initials: plainInitials(),
		Finals: parseFinals("q iu, w ei, e e, r uan, t ue ve, y un, u u, i i, o o uo, p ie, " +
			"a a, s ong iong, d ai, f en, g eng, h ang, j an, k uai ing, l uang iang, " +
			"z ou, x ia ua, c ao, v v ui, b in, n iao, m ian"),
		ZeroInitial: parseZero(vowelZero),
	}

	// Ziran is the 自然码 layout.
	Ziran = &Scheme{
		ID:       "ziran",
		Name:     "自然码",
		Initials: plainInitials(),
		Finals: parseFinals("q iu, w ia ua, e e, r uan, t ue ve, y uai ing, u u, i i, o o uo, p un, " +
			"a a, s ong iong, d iang uang, f en, g eng, h ang, j an, k ao, l ai, " +
			"z ei, x ie, c iao, v ui v, b ou, n in, m ian"),
		ZeroInitial: parseZero(vowelZero),
	}

	// Sogou is the 搜狗双拼 layout.
	Sogou = &Scheme{
		ID:       "sogou",
		Name:     "搜狗双拼",
		Initials: plainInitials(),
		Finals: parseFinals("q iu, w ia ua, e e, r uan er, t ue ve, y uai v, u u, i i, o o uo, p un, " +
			"a a, s ong iong, d iang uang, f en, g eng, h ang, j an, k ao, l ai, ; ing, " +
			"z ei, x ie, c iao, v ui, b ou, n in, m ian"),
		ZeroInitial: parseZero(oZero),
	}

	// Standard is the Microsoft layout most other double-pinyin tables derive
	// from.
	Standard = &Scheme{
		ID:       "standard",
		Name:     "微软双拼",
		Initials: plainInitials(),
		Finals: parseFinals("q iu, w ia ua, e e, r uan er, t ue, y uai v, u u, i i, o o uo, p un, " +
			"a a, s ong iong, d iang uang, f en, g eng, h ang, j an, k ao, l ai, ; ing, " +
			"z ei, x ie, c iao, v ui ve, b ou, n in, m ian"),
		ZeroInitial: parseZero(oZero),
	}
)

var schemes = map[string]*Scheme{
	XiaoHe.ID:   XiaoHe,
	Ziran.ID:    Ziran,
	Sogou.ID:    Sogou,
	Standard.ID: Standard,
	"flypy":     XiaoHe,
	"mspy":      Standard,
}

// Lookup resolves a scheme identifier. Identifiers are case-insensitive.
func Lookup(id string) (*Scheme, bool) {
	s, ok := schemes[strings.ToLower(strings.TrimSpace(id))]
	return s, ok
}

// IDs returns the canonical scheme identifiers.
func IDs() []string {
	return []string{Sogou.ID, Standard.ID, XiaoHe.ID, Ziran.ID}
}

// IsKey reports whether c takes part in the scheme's key table.
func (s *Scheme) IsKey(c byte) bool {
	if _, ok := s.Initials[c]; ok {
		return true
	}
	if _, ok := s.Finals[c]; ok {
		return true
	}
	return false
}

// FinalKeys returns the keys usable in second position, sorted.
func (s *Scheme) FinalKeys() []byte {
	keys := make([]byte, 0, len(s.Finals))
	for k := range s.Finals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// InitialKeys returns the keys usable in first position, sorted. Keys that
// only introduce zero-initial syllables are included.
func (s *Scheme) InitialKeys() []byte {
	seen := make(map[byte]struct{})
	for k := range s.Initials {
		seen[k] = struct{}{}
	}
	for code := range s.ZeroInitial {
		seen[code[0]] = struct{}{}
	}
	keys := make([]byte, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
