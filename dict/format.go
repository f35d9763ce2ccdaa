package dict

import (
	"bufio"
	"strconv"
	"strings"
)

// parseLine reads a body line of the form "text<TAB>code[<TAB>weight]".
// Lines that cannot be read return an empty code.
func parseLine(s string) (code string, w *Entry) {
	fields := strings.Split(s, "\t")
	if len(fields) < 2 {
		return "", nil
	}

	text := strings.TrimSpace(fields[0])
	if text == "" {
		return "", nil
	}
	code, ok := normalizeCode(fields[1])
	if !ok {
		return "", nil
	}

	w = &Entry{Text: text}
	if len(fields) > 2 {
		w.Weight = parseWeight(fields[2])
	}
	if len(fields) > 3 {
		w.Comment = strings.TrimSpace(fields[3])
	}
	return code, w
}

// parseWeight accepts plain integers and percentages; anything else is zero.
func parseWeight(s string) uint32 {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || f < 0 {
			return 0
		}
		return uint32(f * 100)
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func writeEntry(w *bufio.Writer, e *entry) error {
	for _, word := range e.Entries {
		line := word.Text + "\t" + e.Code + "\t" + strconv.FormatUint(uint64(word.Weight), 10)
		if word.Comment != "" {
			line += "\t" + word.Comment
		}
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}

	return nil
}
