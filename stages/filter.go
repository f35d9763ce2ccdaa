package stages

import (
	"sort"
	"unicode/utf8"

	"github.com/kechako/pinyinime/candidate"
	"github.com/kechako/pinyinime/convert"
	"github.com/kechako/pinyinime/pipeline"
)

// SimplificationSwitch gates the simplifier when a schema declares it.
const SimplificationSwitch = "simplification"

// simplifier converts candidate text to the configured script and keeps
// the original in the comment.
type simplifier struct {
	converter convert.Converter
	variant   convert.Variant
	gated     bool
}

func newSimplifier(deps *pipeline.Deps) (pipeline.Filter, error) {
	f := &simplifier{
		converter: deps.Converter,
		variant:   deps.Variant,
		gated:     deps.Schema.HasSwitch(SimplificationSwitch),
	}
	if f.converter == nil {
		f.converter = convert.Builtin()
	}
	if f.variant == "" {
		f.variant = convert.Simplified
	}
	return f, nil
}

func (f *simplifier) Filter(ctx *pipeline.Context, list candidate.List) candidate.List {
	if f.gated && !ctx.Option(SimplificationSwitch) {
		return list
	}

	out := make(candidate.List, 0, len(list))
	var dups candidate.List
	seen := make(map[string]struct{}, len(list))
	for _, c := range list {
		if text := f.converter.Convert(c.Text, f.variant); text != c.Text {
			original := c.Text
			c.Text = text
			c = c.WithComment("〔"+original+"〕", " ")
		}
		// variants folding onto one text keep the first place; the rest
		// go to the end since filters never drop candidates
		if _, dup := seen[c.Text]; dup {
			dups = append(dups, c)
			continue
		}
		seen[c.Text] = struct{}{}
		out = append(out, c)
	}
	return append(out, dups...)
}

// singleCharFilter moves single characters ahead of words, keeping the
// order within each group.
type singleCharFilter struct{}

func newSingleCharFilter(*pipeline.Deps) (pipeline.Filter, error) {
	return singleCharFilter{}, nil
}

func (singleCharFilter) Filter(_ *pipeline.Context, list candidate.List) candidate.List {
	out := append(candidate.List(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].Text) == 1 && utf8.RuneCountInString(out[j].Text) != 1
	})
	return out
}
