// Package candidate defines conversion candidates and the ranker that merges
// them into an ordered list.
package candidate

import "strings"

// FuzzyTag is appended to a candidate's source when it was found through a
// fuzzy-equivalent spelling.
const FuzzyTag = "~fuzzy"

// Candidate is one conversion result. Treat it as immutable once produced.
type Candidate struct {
	Text    string
	Comment string
	Weight  uint32
	Source  string

	// Length is the number of raw input bytes the candidate covers. Zero
	// means the whole input.
	Length int
}

func (c Candidate) String() string {
	if c.Comment == "" {
		return c.Text
	}

	return c.Text + ";" + c.Comment
}

// Fuzzy reports whether the candidate came from a fuzzy-equivalent lookup.
func (c Candidate) Fuzzy() bool {
	return strings.HasSuffix(c.Source, FuzzyTag)
}

// Origin returns the dictionary name without the fuzzy tag.
func (c Candidate) Origin() string {
	return strings.TrimSuffix(c.Source, FuzzyTag)
}

// Covers reports how many bytes of an input of length n the candidate
// consumes.
func (c Candidate) Covers(n int) int {
	if c.Length <= 0 || c.Length > n {
		return n
	}
	return c.Length
}

// WithComment returns a copy of c with annotation joined onto its comment.
func (c Candidate) WithComment(annotation, delimiter string) Candidate {
	if annotation == "" {
		return c
	}

	if c.Comment == "" {
		c.Comment = annotation
	} else if c.Comment != annotation {
		c.Comment += delimiter + annotation
	}
	return c
}
