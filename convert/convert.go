// Package convert maps text between simplified and traditional Chinese.
package convert

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

type Variant string

const (
	Simplified  Variant = "simplified"
	Traditional Variant = "traditional"
)

// ParseVariant accepts the variant names and the usual short forms
// (s, t, hans, hant, zh-cn, zh-tw, t2s, s2t).
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simplified", "s", "hans", "zh-hans", "zh-cn", "t2s":
		return Simplified, nil
	case "traditional", "t", "hant", "zh-hant", "zh-tw", "s2t":
		return Traditional, nil
	}
	return "", fmt.Errorf("unknown script variant %q", s)
}

// Converter rewrites text into the target variant. Text it cannot map is
// returned unchanged.
type Converter interface {
	Convert(text string, target Variant) string
}

// Table converts by longest match over a phrase and character table.
// It is read-only once loaded.
type Table struct {
	toSimp map[string]string
	toTrad map[string]string
	maxLen int
}

var _ Converter = (*Table)(nil)

func NewTable() *Table {
	return &Table{
		toSimp: make(map[string]string),
		toTrad: make(map[string]string),
	}
}

// Add registers a traditional/simplified pair in both directions. An
// existing mapping is kept.
func (t *Table) Add(trad, simp string) {
	if trad == "" || simp == "" {
		return
	}
	if _, ok := t.toSimp[trad]; !ok {
		t.toSimp[trad] = simp
	}
	if _, ok := t.toTrad[simp]; !ok {
		t.toTrad[simp] = trad
	}
	for _, s := range []string{trad, simp} {
		if n := utf8.RuneCountInString(s); n > t.maxLen {
			t.maxLen = n
		}
	}
}

func (t *Table) Len() int {
	return len(t.toSimp)
}

// Read loads "traditional<TAB>simplified[ alternatives...]" lines, the
// layout of the OpenCC TSCharacters and TSPhrases files. Only the first
// alternative is used.
func (t *Table) Read(r io.Reader) error {
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(text) == "" || text[0] == '#' {
			continue
		}
		from, to, ok := strings.Cut(text, "\t")
		if !ok {
			return fmt.Errorf("line %d: missing tab", line)
		}
		fields := strings.Fields(to)
		if len(fields) == 0 {
			return fmt.Errorf("line %d: no conversion", line)
		}
		t.Add(strings.TrimSpace(from), fields[0])
	}
	return s.Err()
}

func (t *Table) ReadFile(name string) error {
	if t == nil {
		return errors.New("Table is nil")
	}

	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := t.Read(file); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

func (t *Table) Convert(text string, target Variant) string {
	m := t.toSimp
	if target == Traditional {
		m = t.toTrad
	}
	if len(m) == 0 || text == "" {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	for i := 0; i < len(runes); {
		n := t.maxLen
		if rest := len(runes) - i; n > rest {
			n = rest
		}
		matched := false
		for ; n > 0; n-- {
			if to, ok := m[string(runes[i:i+n])]; ok {
				b.WriteString(to)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			b.WriteRune(runes[i])
			i++
		}
	}
	return b.String()
}

// builtin covers the characters most often met in tests and small setups.
const builtin = "中國\t中国\n國家\t国家\n東\t东\n眾\t众\n門\t门\n語\t语\n說\t说\n漢\t汉\n" +
	"電\t电\n腦\t脑\n學\t学\n習\t习\n書\t书\n車\t车\n馬\t马\n龍\t龙\n鳥\t鸟\n魚\t鱼\n" +
	"見\t见\n開\t开\n關\t关\n時\t时\n間\t间\n會\t会\n來\t来\n個\t个\n們\t们\n這\t这\n" +
	"愛\t爱\n發\t发\n對\t对\n話\t话\n號\t号\n總\t总\n華\t华\n體\t体\n種\t种\n廣\t广\n"

// Builtin returns a small table with common characters.
func Builtin() *Table {
	t := NewTable()
	if err := t.Read(strings.NewReader(builtin)); err != nil {
		panic(err)
	}
	return t
}
