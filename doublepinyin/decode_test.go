package doublepinyin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kechako/pinyinime/syllable"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		scheme *Scheme
		code   string
		want   []string
	}{
		{XiaoHe, "vs", []string{"zhong"}},
		{XiaoHe, "xm", []string{"xian"}},
		{XiaoHe, "lt", []string{"lve"}},
		{XiaoHe, "jt", []string{"jue"}},
		{XiaoHe, "ah", []string{"ang"}},
		{XiaoHe, "lo", []string{"lo", "luo"}},
		{Ziran, "ky", []string{"kuai"}},
		{Sogou, "oh", []string{"ang"}},
		{Sogou, "b;", []string{"bing"}},
		{Sogou, "ly", []string{"lv"}},
		{Standard, "lv", []string{"lve"}},
		{Standard, "ob", []string{"ou"}},
	}
	for _, tt := range tests {
		got, err := Decode(tt.scheme, tt.code)
		require.NoError(t, err, "%s %s", tt.scheme.ID, tt.code)
		assert.Equal(t, tt.want, got, "%s %s", tt.scheme.ID, tt.code)
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, code := range []string{"", "v", "vsx", "os", "1a"} {
		got, err := Decode(Sogou, code)
		assert.ErrorIs(t, err, ErrInvalidInput, code)
		assert.Nil(t, got)
	}
	_, err := Decode(nil, "vs")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEveryFinalKeyDecodes(t *testing.T) {
	for _, id := range IDs() {
		s, ok := Lookup(id)
		require.True(t, ok, id)

		for _, final := range s.FinalKeys() {
			found := false
			for _, initial := range s.InitialKeys() {
				got, err := Decode(s, string([]byte{initial, final}))
				if err != nil {
					continue
				}
				found = true
				for _, syl := range got {
					assert.True(t, syllable.Valid(syl), "%s %c%c -> %s", id, initial, final, syl)
				}
			}
			assert.True(t, found, "%s: final key %q never decodes", id, final)
		}

		for code, z := range s.ZeroInitial {
			got, err := Decode(s, code)
			require.NoError(t, err, "%s %s", id, code)
			assert.Contains(t, got, z)
		}
	}
}

func TestPartial(t *testing.T) {
	assert.Equal(t, []string{"zh"}, Partial(XiaoHe, 'v'))
	assert.Equal(t, []string{"a"}, Partial(XiaoHe, 'a'))
	assert.Equal(t, []string{"a", "e", "o"}, Partial(Sogou, 'o'))
	assert.Empty(t, Partial(XiaoHe, ';'))
}

func TestLookup(t *testing.T) {
	s, ok := Lookup(" XiaoHe ")
	require.True(t, ok)
	assert.Same(t, XiaoHe, s)

	s, ok = Lookup("mspy")
	require.True(t, ok)
	assert.Same(t, Standard, s)

	_, ok = Lookup("abc")
	assert.False(t, ok)
}
