package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Keystroke()
	m.Keystroke()
	m.Lookup("luna", "exact")
	m.DictionaryError("broken")
	m.Commit("literal")
	m.SchemeLoad("ok")
	m.ObserveLookup(time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Keystrokes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("luna", "exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DictionaryErrors.WithLabelValues("broken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commits.WithLabelValues("literal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SchemeLoads.WithLabelValues("ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.LookupDuration))
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Keystroke()
		m.Lookup("a", "exact")
		m.DictionaryError("a")
		m.Commit("candidate")
		m.SchemeLoad("error")
		m.ObserveLookup(time.Now())
	})
}
