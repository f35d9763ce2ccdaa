package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kechako/pinyinime/doublepinyin"
)

const lunaYAML = `
schema:
  schema_id: luna_pinyin_trad
  name: 朙月拼音
  version: "0.1"
  dependencies: [stroke]
switches:
  - name: simplification
    reset: 1
    states: [漢字, 汉字]
  - name: ascii_mode
engine:
  processors:
    - ascii_composer
    - speller
    - selector
    - express_editor
  segmentors:
    - abc_segmentor
  translators:
    - script_translator
    - echo_translator
  filters:
    - simplifier
speller:
  alphabet: zyxwvutsrqponmlkjihgfedcba
  delimiter: " '"
  algebra:
    - derive/^zh/z/
    - derive/an$/ang$/
translator:
  dictionary: luna_pinyin
  dictionaries: [extra, luna_pinyin]
  fuzzy_penalty: 0.25
menu:
  page_size: 7
`

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader(lunaYAML))
	require.NoError(t, err)

	assert.Equal(t, "luna_pinyin_trad", d.ID())
	assert.Equal(t, "朙月拼音", d.Schema.Name)
	assert.Equal(t, []string{"stroke"}, d.Schema.Dependencies)
	assert.Equal(t, PinyinTrad, d.Type())
	assert.Equal(t, []string{"ascii_composer", "speller", "selector", "express_editor"}, d.Engine.Processors)
	assert.Equal(t, []string{"script_translator", "echo_translator"}, d.Engine.Translators)
	assert.Equal(t, []string{"simplifier"}, d.Engine.Filters)
	assert.Equal(t, " '", d.Speller.Delimiter)
	assert.Len(t, d.Speller.Algebra, 2)
	assert.Equal(t, 0.25, d.Translator.FuzzyPenalty)
	assert.Equal(t, []string{"luna_pinyin", "extra"}, d.Dictionaries())
	assert.Equal(t, 7, d.PageSize())
	assert.Equal(t, map[string]bool{"simplification": true, "ascii_mode": false}, d.Options())
	assert.True(t, d.HasSwitch("simplification"))
	assert.False(t, d.HasSwitch("full_shape"))

	layout, err := d.DoublePinyinLayout()
	require.NoError(t, err)
	assert.Nil(t, layout)
}

func TestDefaults(t *testing.T) {
	d := &Descriptor{
		Schema: Info{ID: "pinyin_simp"},
		Engine: Engine{
			Processors:  []string{"speller"},
			Segmentors:  []string{"abc_segmentor"},
			Translators: []string{"script_translator"},
		},
	}
	require.NoError(t, d.Validate())
	assert.Equal(t, PinyinSimp, d.Type())
	assert.Equal(t, DefaultAlphabet, d.Alphabet())
	assert.Equal(t, DefaultPageSize, d.PageSize())
	assert.Empty(t, d.Dictionaries())
}

func TestDoublePinyinLayout(t *testing.T) {
	tests := []struct {
		id     string
		layout string
		want   *doublepinyin.Scheme
	}{
		{id: "double_pinyin", want: doublepinyin.Ziran},
		{id: "double_pinyin_flypy", want: doublepinyin.XiaoHe},
		{id: "double_pinyin_mspy", want: doublepinyin.Standard},
		{id: "my_shuangpin", layout: "sogou", want: doublepinyin.Sogou},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			d := &Descriptor{Schema: Info{ID: tt.id}, Speller: Speller{DoublePinyin: tt.layout}}
			assert.Equal(t, DoublePinyin, d.Type())
			got, err := d.DoublePinyinLayout()
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Descriptor {
		return &Descriptor{
			Schema: Info{ID: "pinyin_simp"},
			Engine: Engine{
				Processors:  []string{"speller"},
				Segmentors:  []string{"abc_segmentor"},
				Translators: []string{"script_translator"},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(d *Descriptor)
		kind   string
	}{
		{name: "no id", mutate: func(d *Descriptor) { d.Schema.ID = " " }, kind: "schema"},
		{name: "no translators", mutate: func(d *Descriptor) { d.Engine.Translators = nil }, kind: "engine"},
		{name: "empty filter", mutate: func(d *Descriptor) { d.Engine.Filters = []string{""} }, kind: KindFilter},
		{name: "page size", mutate: func(d *Descriptor) { d.Menu.PageSize = 10 }, kind: "menu"},
		{name: "penalty", mutate: func(d *Descriptor) { d.Translator.FuzzyPenalty = 1.5 }, kind: "translator"},
		{name: "delimiter", mutate: func(d *Descriptor) { d.Speller.Delimiter = "a" }, kind: "speller"},
		{name: "layout", mutate: func(d *Descriptor) { d.Speller.DoublePinyin = "dvorak" }, kind: "speller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			err := d.Validate()
			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.kind, serr.Kind)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "luna_pinyin.schema.yaml")
	require.NoError(t, os.WriteFile(name, []byte(lunaYAML), 0o644))

	d, err := ParseFile(name)
	require.NoError(t, err)
	assert.Equal(t, "luna_pinyin_trad", d.ID())

	_, err = ParseFile(filepath.Join(dir, "missing.schema.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.schema.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("schema: [\n"), 0o644))
	_, err = ParseFile(bad)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "yaml", serr.Kind)
	assert.Contains(t, err.Error(), bad)
}

func TestMarshalRoundTrip(t *testing.T) {
	d, err := Parse(strings.NewReader(lunaYAML))
	require.NoError(t, err)

	data, err := d.Marshal()
	require.NoError(t, err)

	again, err := Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Schema: "pinyin_simp", Stage: "fuzzy_filter", Kind: KindFilter, Reason: "not registered"}
	assert.Equal(t, `schema pinyin_simp: filter "fuzzy_filter": not registered`, err.Error())

	err = &Error{Kind: "engine", Reason: "no processors"}
	assert.Equal(t, "schema: engine: no processors", err.Error())
}
