package matcher

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kechako/pinyinime/candidate"
	"github.com/kechako/pinyinime/dict"
	"github.com/kechako/pinyinime/internal/metrics"
)

type brokenSource struct{}

func (brokenSource) Name() string { return "broken" }

func (brokenSource) LookupExact([]string) ([]dict.Entry, error) {
	return nil, errors.New("disk gone")
}

func (brokenSource) LookupPrefix([]string) ([]dict.Entry, error) {
	return nil, errors.New("disk gone")
}

func newDict() *dict.Dictionary {
	d := dict.New("main")
	d.AddEntries("zhong", dict.Entry{Text: "中", Weight: 100}, dict.Entry{Text: "众", Weight: 80})
	d.AddEntries("zong", dict.Entry{Text: "总", Weight: 100})
	d.AddEntries("zhong guo", dict.Entry{Text: "中国", Weight: 90})
	d.AddEntries("lan", dict.Entry{Text: "蓝", Weight: 50})
	d.AddEntries("nan", dict.Entry{Text: "南", Weight: 50})
	return d
}

func TestParseAlgebra(t *testing.T) {
	eqs, ignored := ParseAlgebra([]string{
		"derive/^zh/z/",
		"derive/an$/ang$/",
		"xform/^([nl])ue$/$1ve/",
		"derive/^n$/l/",
	})
	assert.Equal(t, []Equivalence{
		{From: "zh", To: "z", Position: Initial},
		{From: "an", To: "ang", Position: Final},
	}, eqs)
	assert.Equal(t, []string{"xform/^([nl])ue$/$1ve/", "derive/^n$/l/"}, ignored)
}

func TestVariants(t *testing.T) {
	eqs := []Equivalence{
		{From: "zh", To: "z", Position: Initial},
		{From: "an", To: "ang", Position: Final},
	}
	assert.Equal(t, []string{"zong"}, Variants("zhong", false, eqs))
	assert.Equal(t, []string{"zhong"}, Variants("zong", false, eqs))
	assert.Equal(t, []string{"zan", "zhang", "zang"}, Variants("zhan", false, eqs))
	assert.Equal(t, []string{"zh"}, Variants("z", true, eqs))
	assert.Empty(t, Variants("ba", false, eqs))
}

func TestLookupExact(t *testing.T) {
	m := New([]dict.Source{newDict()})

	got := m.Lookup([]string{"zhong"}, Exact)
	require.Len(t, got, 2)
	assert.Equal(t, candidate.Candidate{Text: "中", Comment: "zhong", Weight: 100, Source: "main"}, got[0])
	assert.Empty(t, m.Lookup(nil, Exact))
	assert.Empty(t, m.Lookup([]string{"xiang"}, Exact))
}

func TestLookupPrefix(t *testing.T) {
	m := New([]dict.Source{newDict()})

	got := m.Lookup([]string{"zhong", "g"}, Prefix)
	require.Len(t, got, 1)
	assert.Equal(t, "中国", got[0].Text)
	assert.Equal(t, "zhong guo", got[0].Comment)
}

func TestFuzzyPenaltyOrdering(t *testing.T) {
	m := New([]dict.Source{newDict()}, WithEquivalences(Equivalence{From: "zh", To: "z"}))

	got := m.Lookup([]string{"zong"}, Exact)
	require.Len(t, got, 3)
	assert.Equal(t, "总", got[0].Text)
	assert.False(t, got[0].Fuzzy())
	assert.Equal(t, "中", got[1].Text)
	assert.True(t, got[1].Fuzzy())
	assert.Equal(t, "main", got[1].Origin())
	assert.Equal(t, uint32(50), got[1].Weight)

	ranked := candidate.Ranker{}.Merge(got)
	assert.Equal(t, []string{"总", "中", "众"}, ranked.Texts())
	assert.Less(t, ranked[1].Weight, ranked[0].Weight)
}

func TestPenaltyIsStrict(t *testing.T) {
	m := New(nil, WithPenalty(1))
	assert.Equal(t, uint32(9), m.penalize(10))
	assert.Equal(t, uint32(0), m.penalize(0))

	m = New(nil, WithPenalty(0.3))
	assert.Equal(t, uint32(30), m.penalize(100))

	m = New(nil, WithPenalty(7))
	assert.Equal(t, DefaultPenalty, m.penalty)
}

func TestMaxExpansion(t *testing.T) {
	eqs := WithEquivalences(
		Equivalence{From: "n", To: "l"},
		Equivalence{From: "an", To: "ang", Position: Final},
	)
	m := New([]dict.Source{newDict()}, eqs)
	assert.Len(t, m.expand([]string{"nan", "nan"}, false), 15)

	m = New([]dict.Source{newDict()}, eqs, WithMaxExpansion(2))
	assert.Len(t, m.expand([]string{"nan", "nan"}, false), 2)

	m = New([]dict.Source{newDict()}, eqs, WithMaxExpansion(0))
	assert.Equal(t, []string{"南"}, candidate.List(m.Lookup([]string{"nan"}, Exact)).Texts())
}

func TestUnavailableSource(t *testing.T) {
	var out bytes.Buffer
	logger := log.New()
	logger.SetOutput(&out)

	reg := prometheus.NewRegistry()
	met, err := metrics.New(reg)
	require.NoError(t, err)

	m := New([]dict.Source{brokenSource{}, newDict()}, WithLogger(logger), WithMetrics(met))
	got := m.Lookup([]string{"zhong"}, Exact)

	assert.Equal(t, []string{"中", "众"}, candidate.List(got).Texts())
	assert.Contains(t, out.String(), "dictionary lookup failed")
	assert.Contains(t, out.String(), "dictionary=broken")
	assert.Equal(t, 1.0, testutil.ToFloat64(met.DictionaryErrors.WithLabelValues("broken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(met.Lookups.WithLabelValues("main", "exact")))

	var uerr *UnavailableError
	_, qerr := m.query(brokenSource{}, []string{"a"}, Exact)
	require.ErrorAs(t, qerr, &uerr)
	assert.Equal(t, "broken", uerr.Source)
}

func TestComplete(t *testing.T) {
	m := New([]dict.Source{brokenSource{}, newDict(), newDict()})
	assert.Equal(t, []string{"zhong", "zhong guo"}, m.Complete("zh"))
	assert.Empty(t, m.Complete(""))
}
