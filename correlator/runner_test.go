package correlator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/vuln-correlator/advisory"
	"github.com/aquasecurity/vuln-correlator/component"
	"github.com/aquasecurity/vuln-correlator/knowledge"
)

var batch = []advisory.Record{
	log4shell,
	{
		ID:          "CVE-2023-32681",
		Title:       "Unintended leak of Proxy-Authorization header",
		Description: "Requests http client leaks headers to the api when redirected",
	},
	{ID: "GHSA-xxxx-xxxx-xxxx"},
}

func metricValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if h := m.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}
			if label == "" {
				return m.GetCounter().GetValue()
			}
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRunnerRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	r := NewRunner(New(knowledge.Default()), WithWorkers(2), WithTimeout(time.Minute), WithRegisterer(reg))
	reports, err := r.Run(ctx, installed, batch)
	require.NoError(t, err)
	require.Len(t, reports, len(batch))

	ids := make(map[string]struct{})
	for i, rep := range reports {
		assert.Equal(t, batch[i].ID, rep.Advisory.ID)
		assert.False(t, rep.TimedOut)
		assert.NotNil(t, rep.Results)
		assert.NotEmpty(t, rep.ID)
		ids[rep.ID] = struct{}{}
	}
	assert.Len(t, ids, len(batch))

	assert.Equal(t, New(knowledge.Default()).Match(installed, log4shell), reports[0].Results)
	require.Len(t, reports[1].Results, 2)
	assert.Equal(t, "requests", reports[1].Results[0].ComponentName)
	assert.Empty(t, reports[2].Results)

	assert.Equal(t, 2.0, metricValue(t, reg, "vuln_correlator_results_total", string(NamedEntity)))
	assert.Equal(t, 2.0, metricValue(t, reg, "vuln_correlator_results_total", string(SimilarityBased)))
	assert.Equal(t, 3.0, metricValue(t, reg, "vuln_correlator_advisory_duration_seconds", ""))
	assert.Zero(t, metricValue(t, reg, "vuln_correlator_advisory_timeouts_total", ""))

	assert.Contains(t, buf.String(), "Correlation finished")
}

func TestRunnerSharedRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	engine := New(knowledge.Default())
	for i := 0; i < 2; i++ {
		_, err := NewRunner(engine, WithRegisterer(reg)).Run(context.Background(), installed, batch[:1])
		require.NoError(t, err)
	}
	assert.Equal(t, 2.0, metricValue(t, reg, "vuln_correlator_results_total", string(NamedEntity)))
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := NewRunner(New(knowledge.Default())).Run(ctx, installed, batch)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, reports)
}

func TestRunnerEmpty(t *testing.T) {
	reports, err := NewRunner(New(knowledge.Default()), WithWorkers(0)).Run(context.Background(), installed, nil)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestRunnerTimeout(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	r := NewRunner(New(knowledge.Default()), WithTimeout(time.Nanosecond), WithRegisterer(reg))
	block := make(chan struct{})
	defer close(block)
	r.match = func([]component.Component, advisory.Record) []Result {
		<-block
		return nil
	}

	reports, err := r.Run(ctx, installed, batch)
	require.NoError(t, err)
	require.Len(t, reports, len(batch))
	for i, rep := range reports {
		assert.True(t, rep.TimedOut)
		assert.Equal(t, batch[i].ID, rep.Advisory.ID)
		assert.NotNil(t, rep.Results)
		assert.Empty(t, rep.Results)
	}
	assert.Equal(t, float64(len(batch)), metricValue(t, reg, "vuln_correlator_advisory_timeouts_total", ""))
	assert.Zero(t, metricValue(t, reg, "vuln_correlator_advisory_duration_seconds", ""))
	assert.Contains(t, buf.String(), "Advisory deadline exceeded")
	assert.Contains(t, buf.String(), "Correlation finished")
}
