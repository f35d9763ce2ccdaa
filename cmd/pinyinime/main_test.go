package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kechako/pinyinime"
	"github.com/kechako/pinyinime/config"
	"github.com/kechako/pinyinime/convert"
	"github.com/kechako/pinyinime/dict"
	"github.com/kechako/pinyinime/schema"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.dict.yaml", "中\tzhong\t100\n众\tzhong\t80\n中国\tzhong guo\t90\n")
	b := writeFile(t, dir, "b.dict.yaml", "众\tzhong\t80\n")
	c := writeFile(t, dir, "c.dict.yaml", "钟\tzhong\t20\n")

	tests := map[string]struct {
		args []string
		want []string
	}{
		"add":          {args: []string{a, c}, want: []string{"中", "众", "钟"}},
		"attached sub": {args: []string{a, "-" + b, c}, want: []string{"中", "钟"}},
		"bare sub":     {args: []string{a, "-", b, c}, want: []string{"中"}},
		"and":          {args: []string{a, "^" + b}, want: []string{"众"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dic := dict.New("")
			require.NoError(t, mergeFiles(dic, tt.args))

			var got []string
			for _, e := range dic.Lookup("zhong") {
				got = append(got, e.Text)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}

	err := mergeFiles(dict.New(""), []string{filepath.Join(dir, "missing")})
	assert.ErrorContains(t, err, "failed to read dictionary")
}

func TestBuild(t *testing.T) {
	outputFile = ""
	var out bytes.Buffer
	buildCmd.SetIn(strings.NewReader("中国\t90\n# comment\n人\n"))
	buildCmd.SetOut(&out)
	buildCmd.SetErr(&bytes.Buffer{})

	require.NoError(t, runBuild(buildCmd, nil))

	dic := dict.New("")
	require.NoError(t, dic.Read(&out, dict.Add))
	entries := dic.Lookup("zhong guo")
	require.Len(t, entries, 1)
	assert.Equal(t, "中国", entries[0].Text)
	assert.EqualValues(t, 90, entries[0].Weight)
	assert.Len(t, dic.Lookup("ren"), 1)
}

func TestFeed(t *testing.T) {
	d := dict.New("pinyin_simp")
	d.AddEntries("zhong", dict.Entry{Text: "中", Weight: 100}, dict.Entry{Text: "众", Weight: 80})

	e := pinyinime.New(pinyinime.WithDictionary(d))
	require.NoError(t, e.LoadScheme(&schema.Descriptor{
		Schema: schema.Info{ID: "pinyin_simp"},
		Engine: schema.Engine{
			Processors:  []string{"ascii_composer", "speller", "selector", "express_editor"},
			Segmentors:  []string{"abc_segmentor"},
			Translators: []string{"script_translator"},
		},
		Translator: schema.Translator{Dictionary: "pinyin_simp"},
	}))

	tests := map[string]struct {
		words []string
		want  string
	}{
		"space":   {words: []string{"zhong", "<space>"}, want: "中"},
		"down":    {words: []string{"zhong", "<down>", "<space>"}, want: "众"},
		"digit":   {words: []string{"zhong2"}, want: "众"},
		"raw":     {words: []string{"zhong", "<return>"}, want: "zhong"},
		"passing": {words: []string{"zhong", "<space>", "1,"}, want: "中1,"},
		"escape":  {words: []string{"zhong", "<escape>"}, want: ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var text strings.Builder
			require.NoError(t, feed(e.NewSession(), tt.words, &text))
			assert.Equal(t, tt.want, text.String())
		})
	}

	var text strings.Builder
	assert.ErrorContains(t, feed(e.NewSession(), []string{"<hyper>"}, &text), "unknown key")
}

func TestSetFlagsFromEnv(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	a := fs.String("log-level", "", "")
	b := fs.String("resource-dir", "", "")
	require.NoError(t, fs.Parse([]string{"--resource-dir", "flag"}))

	t.Setenv("TEST_LOG_LEVEL", "debug")
	t.Setenv("TEST_RESOURCE_DIR", "env")
	require.NoError(t, setFlagsFromEnv(fs, "TEST"))

	assert.Equal(t, "debug", *a)
	assert.Equal(t, "flag", *b)
}

func TestNewConverter(t *testing.T) {
	c, err := newConverter(config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &convert.Table{}, c)
	assert.Equal(t, "中国", c.Convert("中國", convert.Simplified))

	dir := t.TempDir()
	path := writeFile(t, dir, "t2s.txt", "後\t后\n")
	c, err = newConverter(config.Config{ConvertTable: path})
	require.NoError(t, err)
	assert.Equal(t, "后", c.Convert("後", convert.Simplified))

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(config.Paths{Root: root}.OpenCCDir(), "config"), 0o755))
	_, err = newConverter(config.Config{ResourceDir: root})
	assert.ErrorContains(t, err, "opencc")
}
