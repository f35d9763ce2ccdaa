package dict

import "slices"

// Entry is one word stored under a code.
type Entry struct {
	Text    string
	Comment string
	Weight  uint32
}

type entry struct {
	Code    string
	Entries []*Entry

	// shared holds, during an And merge, the words also found in the other
	// dictionary with the smaller of the two weights.
	shared map[string]uint32
}

func (e *entry) syllableCount() int {
	return countSyllables(e.Code)
}

func (e *entry) find(text string) int {
	return slices.IndexFunc(e.Entries, func(w *Entry) bool {
		return w.Text == text
	})
}

// add keeps one word per text: the larger weight wins and comments are
// joined.
func (e *entry) add(w *Entry, delimiter string) {
	i := e.find(w.Text)
	if i < 0 {
		e.Entries = append(e.Entries, w)
		return
	}
	cur := e.Entries[i]
	if w.Weight > cur.Weight {
		cur.Weight = w.Weight
	}
	cur.joinComment(w.Comment, delimiter)
}

func (e *entry) remove(text string) {
	if i := e.find(text); i >= 0 {
		e.Entries = slices.Delete(e.Entries, i, i+1)
	}
}

func (e *entry) intersect(w *Entry) {
	i := e.find(w.Text)
	if i < 0 {
		return
	}
	weight := min(e.Entries[i].Weight, w.Weight)
	if prev, ok := e.shared[w.Text]; ok {
		weight = min(weight, prev)
	}
	if e.shared == nil {
		e.shared = make(map[string]uint32)
	}
	e.shared[w.Text] = weight
}

func (e *entry) settle() {
	e.Entries = slices.DeleteFunc(e.Entries, func(w *Entry) bool {
		weight, ok := e.shared[w.Text]
		if ok {
			w.Weight = weight
		}
		return !ok
	})
	e.shared = nil
}

func (w *Entry) joinComment(comment, delimiter string) {
	if comment == "" {
		return
	}

	if w.Comment == "" {
		w.Comment = comment
	} else if w.Comment != comment {
		w.Comment += delimiter + comment
	}
}

func lessEntry(a, b *entry) bool {
	return a.Code < b.Code
}
