package dict

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mozillazg/go-pinyin"
)

// Word is a plain word list item without a reading.
type Word struct {
	Text   string
	Weight uint32
}

// ReadWords reads "text[<TAB or space>weight]" lines. Blank lines and lines
// starting with '#' are skipped.
func ReadWords(r io.Reader) ([]Word, error) {
	var words []Word
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		w := Word{Text: fields[0]}
		if len(fields) > 1 {
			w.Weight = parseWeight(fields[1])
		}
		words = append(words, w)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// Build derives a reading for every word and adds it. Words with characters
// that have no reading are skipped; Build returns how many were added.
func (dic *Dictionary) Build(words []Word) int {
	args := pinyin.NewArgs()
	added := 0
	for _, w := range words {
		readings := pinyin.LazyPinyin(w.Text, args)
		if len(readings) == 0 || len(readings) != utf8.RuneCountInString(w.Text) {
			continue
		}
		code, ok := normalizeCode(strings.Join(readings, " "))
		if !ok {
			continue
		}
		dic.process(code, []*Entry{{Text: w.Text, Weight: w.Weight}}, Add)
		added++
	}
	return added
}
