// Package stages provides the built-in processors, segmentors, translators
// and filters, registered under their Rime names.
package stages

import "github.com/kechako/pinyinime/pipeline"

// Register adds the built-in stages to reg, replacing stages of the same
// name.
func Register(reg *pipeline.Registry) {
	reg.Processors["ascii_composer"] = newASCIIComposer
	reg.Processors["speller"] = newSpeller
	reg.Processors["selector"] = newSelector
	reg.Processors["express_editor"] = newExpressEditor

	reg.Segmentors["abc_segmentor"] = newABCSegmentor

	reg.Translators["script_translator"] = newScriptTranslator
	reg.Translators["echo_translator"] = newEchoTranslator

	reg.Filters["simplifier"] = newSimplifier
	reg.Filters["single_char_filter"] = newSingleCharFilter
}

// NewRegistry returns a registry holding only the built-in stages.
func NewRegistry() *pipeline.Registry {
	reg := pipeline.NewRegistry()
	Register(reg)
	return reg
}
