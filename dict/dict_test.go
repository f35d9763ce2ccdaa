package dict

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/kechako/pinyinime/syllable"
)

const sample = `# Rime dictionary
---
name: sample
version: "0.1"
sort: by_weight
...

中	zhong	100
众	zhong	80
钟	zhong	20
中国	zhong guo	90
中文	zhong wen	50
西安	xi an	40
先	xian	60
绿	lü	30
坏	bad code	10
`

func newSample(t *testing.T) *Dictionary {
	t.Helper()
	dic := New("")
	require.NoError(t, dic.Read(strings.NewReader(sample), Add))
	return dic
}

func texts(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

func TestRead(t *testing.T) {
	dic := newSample(t)

	assert.Equal(t, "sample", dic.Name())
	assert.Equal(t, 6, dic.Len())

	got := dic.Lookup("zhong")
	assert.Equal(t, []string{"中", "众", "钟"}, texts(got))
	assert.Equal(t, uint32(100), got[0].Weight)
	assert.Equal(t, "zhong", got[0].Comment)

	assert.Equal(t, []string{"绿"}, texts(dic.Lookup("lv")))
	assert.Empty(t, dic.Lookup("bad code"))
}

func TestLookupExact(t *testing.T) {
	dic := newSample(t)

	got, err := dic.LookupExact([]string{"zhong", "guo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"中国"}, texts(got))

	got, err = dic.LookupExact(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLookupPrefix(t *testing.T) {
	dic := newSample(t)

	got, err := dic.LookupPrefix([]string{"zh"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"中", "众", "钟", "中国", "中文"}, texts(got))

	got, err = dic.LookupPrefix([]string{"zhong", "g"})
	require.NoError(t, err)
	assert.Equal(t, []string{"中国"}, texts(got))
	assert.Equal(t, "zhong guo", got[0].Comment)

	shallow := New("shallow", WithCompletionDepth(0))
	shallow.AddEntries("zhong", Entry{Text: "中", Weight: 1})
	shallow.AddEntries("zhong guo", Entry{Text: "中国", Weight: 1})
	got, err = shallow.LookupPrefix([]string{"zh"})
	require.NoError(t, err)
	assert.Equal(t, []string{"中"}, texts(got))
}

func TestLookupPrefixKeepsHeaviest(t *testing.T) {
	dic := New("large")
	for _, syl := range syllable.All() {
		dic.AddEntries("zha "+syl, Entry{Text: "扎" + syl, Weight: 1})
	}
	dic.AddEntries("zhe", Entry{Text: "这", Weight: 1000})
	dic.AddEntries("zhong", Entry{Text: "中", Weight: 500})

	got, err := dic.LookupPrefix([]string{"zh"})
	require.NoError(t, err)
	require.Len(t, got, 64)
	assert.Equal(t, []string{"这", "中"}, texts(got[:2]))

	limited := New("limited", WithCompletionLimit(1))
	limited.AddEntries("zha", Entry{Text: "扎", Weight: 1})
	limited.AddEntries("zhe", Entry{Text: "这", Weight: 9})
	got, err = limited.LookupPrefix([]string{"zh"})
	require.NoError(t, err)
	assert.Equal(t, []string{"这"}, texts(got))
}

func TestComplete(t *testing.T) {
	dic := newSample(t)
	assert.Equal(t, []string{"xi an", "xian"}, dic.Complete("xi"))

	limited := New("limited", WithCompletionLimit(1))
	limited.AddEntries("xi an", Entry{Text: "西安"})
	limited.AddEntries("xian", Entry{Text: "先"})
	assert.Equal(t, []string{"xi an"}, limited.Complete("xi"))
}

func TestAddKeepsHighestWeight(t *testing.T) {
	dic := New("d", WithCommentDelimiter("|"))
	dic.AddEntries("zhong", Entry{Text: "中", Weight: 10, Comment: "a"})
	dic.AddEntries("ZHONG", Entry{Text: "中", Weight: 30, Comment: "b"})
	dic.AddEntries("zhong", Entry{Text: "中", Weight: 20})

	got := dic.Lookup("zhong")
	require.Len(t, got, 1)
	assert.Equal(t, uint32(30), got[0].Weight)
	assert.Equal(t, "a|b", got[0].Comment)
}

func TestMergeModes(t *testing.T) {
	dic := newSample(t)

	require.NoError(t, dic.Read(strings.NewReader("众\tzhong\t1\n"), Sub))
	assert.Equal(t, []string{"中", "钟"}, texts(dic.Lookup("zhong")))

	require.NoError(t, dic.Read(strings.NewReader("中\tzhong\t1\n中国\tzhong guo\t1\n"), And))
	assert.Equal(t, []string{"中"}, texts(dic.Lookup("zhong")))
	assert.EqualValues(t, 1, dic.Lookup("zhong")[0].Weight)
	assert.Equal(t, []string{"中国"}, texts(dic.Lookup("zhong guo")))
	assert.Empty(t, dic.Lookup("xian"))
	assert.Equal(t, 2, dic.Len())

	dic.SubEntries("zhong guo", Entry{Text: "中国"})
	assert.Equal(t, 1, dic.Len())
	dic.RemoveEntries("zhong")
	assert.Equal(t, 0, dic.Len())
}

func TestWriteRoundTripGBK(t *testing.T) {
	dic := newSample(t)

	var buf bytes.Buffer
	require.NoError(t, dic.Write(&buf, WithOutputEncoding(GBK)))

	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "中国\tzhong guo\t90")
	assert.True(t, strings.HasPrefix(string(decoded), "# -*- coding: gbk -*-\n"))

	again := New("")
	require.NoError(t, again.Read(bytes.NewReader(buf.Bytes()), Add))
	assert.Equal(t, "sample", again.Name())
	assert.Equal(t, dic.Len(), again.Len())
	assert.Equal(t, []string{"中", "众", "钟"}, texts(again.Lookup("zhong")))
}

func TestReadFileWithExplicitEncoding(t *testing.T) {
	encoded, err := simplifiedchinese.GB18030.NewEncoder().String("中\tzhong\t5\n")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "gb.dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o600))

	dic := New("gb")
	require.NoError(t, dic.ReadFile(path, Add, WithInputEncoding(GB18030)))
	assert.Equal(t, []string{"中"}, texts(dic.Lookup("zhong")))

	assert.Error(t, dic.ReadFile(filepath.Join(t.TempDir(), "missing"), Add))
}

func TestParseWeight(t *testing.T) {
	assert.Equal(t, uint32(42), parseWeight("42"))
	assert.Equal(t, uint32(150), parseWeight("1.5%"))
	assert.Equal(t, uint32(0), parseWeight("x"))
	assert.Equal(t, uint32(0), parseWeight("-1"))
}

func TestBuild(t *testing.T) {
	words, err := ReadWords(strings.NewReader("# words\n中国 90\n\n你好\t70\nabc 1\n"))
	require.NoError(t, err)
	require.Len(t, words, 3)

	dic := New("built")
	assert.Equal(t, 2, dic.Build(words))
	assert.Equal(t, []string{"中国"}, texts(dic.Lookup("zhong guo")))
	assert.Equal(t, uint32(70), dic.Lookup("ni hao")[0].Weight)
}
