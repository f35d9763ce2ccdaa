package candidate

import "sort"

// List is an ordered candidate sequence; index order is rank order.
type List []Candidate

// Len returns the number of candidates.
func (l List) Len() int {
	return len(l)
}

// At returns the candidate at i.
func (l List) At(i int) (Candidate, bool) {
	if i < 0 || i >= len(l) {
		return Candidate{}, false
	}
	return l[i], true
}

// Texts returns the candidate texts in order.
func (l List) Texts() []string {
	out := make([]string, len(l))
	for i, c := range l {
		out[i] = c.Text
	}
	return out
}

// PageCount returns the number of pages of the given size.
func (l List) PageCount(size int) int {
	if size <= 0 || len(l) == 0 {
		return 0
	}
	return (len(l) + size - 1) / size
}

// Page returns the candidates on page p (zero based). Out of range pages
// are empty.
func (l List) Page(p, size int) List {
	if size <= 0 || p < 0 {
		return nil
	}
	from := p * size
	if from >= len(l) {
		return nil
	}
	to := from + size
	if to > len(l) {
		to = len(l)
	}
	return l[from:to]
}

// Ranker merges candidate sets from several sources.
type Ranker struct {
	// MaxCandidates truncates the merged list; zero keeps everything.
	MaxCandidates int
	// Priority lists source names, most preferred first. It breaks weight
	// ties when two sources produce the same text.
	Priority []string
}

func (r Ranker) priority(c Candidate) int {
	origin := c.Origin()
	for i, name := range r.Priority {
		if name == origin {
			return i
		}
	}
	return len(r.Priority)
}

func (r Ranker) better(a, b Candidate) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	return r.priority(a) < r.priority(b)
}

// Merge unions the sets, keeps one candidate per text (highest weight, then
// source priority, then first seen), orders by descending weight with first
// seen order as the tie-break, and truncates to MaxCandidates. Identical
// inputs always produce an identical list.
func (r Ranker) Merge(sets ...[]Candidate) List {
	index := make(map[string]int)
	var merged List
	for _, set := range sets {
		for _, c := range set {
			i, found := index[c.Text]
			if !found {
				index[c.Text] = len(merged)
				merged = append(merged, c)
				continue
			}
			if r.better(c, merged[i]) {
				merged[i] = c
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Weight > merged[j].Weight
	})

	if r.MaxCandidates > 0 && len(merged) > r.MaxCandidates {
		merged = merged[:r.MaxCandidates]
	}
	return merged
}
