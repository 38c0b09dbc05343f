package metrics_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
	"github.com/BrandonDHaskell/gymgate/internal/gym/service"
	"github.com/BrandonDHaskell/gymgate/internal/metrics"
)

func TestMetrics_ObservesEngine(t *testing.T) {
	dir, err := roster.NewDirectory([]roster.Member{
		{Key: "AL001", Name: "Ana", Category: roster.CategoryUniversity},
		{Key: "TO002", Name: "Teo", Category: roster.CategoryStaff},
	})
	require.NoError(t, err)

	m := metrics.New()
	svc, err := service.NewAdmissionService(dir, 1, service.WithObserver(m))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.RegisterEntry(ctx, "AL001")
	require.NoError(t, err)
	_, err = svc.RegisterEntry(ctx, "TO002")
	require.NoError(t, err)
	_, err = svc.RegisterEntry(ctx, "404")
	require.Error(t, err)
	_, err = svc.RegisterExit(ctx, "AL001")
	require.NoError(t, err)
	_, err = svc.AdmitFromWaiting(ctx, "TO002")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	assert.Contains(t, text, `gymgate_admissions_total{category="university",path="direct"} 1`)
	assert.Contains(t, text, `gymgate_admissions_total{category="staff",path="waitlist"} 1`)
	assert.Contains(t, text, `gymgate_rejections_total{kind="not_found"} 1`)
	assert.Contains(t, text, `gymgate_outcomes_total{outcome="queued"} 1`)
	assert.Contains(t, text, "gymgate_members_inside 1")
	assert.Contains(t, text, "gymgate_members_waiting 0")
	assert.Contains(t, text, "gymgate_capacity 1")
}

func TestMetrics_SetCapacity(t *testing.T) {
	m := metrics.New()
	m.SetCapacity(25)

	ts := httptest.NewServer(m.Handler())
	defer ts.Close()

	expected := `
# HELP gymgate_capacity Configured capacity.
# TYPE gymgate_capacity gauge
gymgate_capacity 25
`
	require.NoError(t, testutil.ScrapeAndCompare(ts.URL, strings.NewReader(expected), "gymgate_capacity"))
}

func counterByLabel(t *testing.T, m *metrics.Metrics, family, label string) map[string]float64 {
	t.Helper()
	mfs, err := m.Gatherer().Gather()
	require.NoError(t, err)

	out := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != family {
			continue
		}
		require.Equal(t, dto.MetricType_COUNTER, mf.GetType())
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == label {
					out[lp.GetValue()] += metric.GetCounter().GetValue()
				}
			}
		}
	}
	return out
}

func TestMetrics_RejectionsByKind(t *testing.T) {
	dir, err := roster.NewDirectory([]roster.Member{
		{Key: "AL001", Name: "Ana", Category: roster.CategoryUniversity},
	})
	require.NoError(t, err)

	m := metrics.New()
	svc, err := service.NewAdmissionService(dir, 1, service.WithObserver(m))
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = svc.RegisterExit(ctx, "AL001")
	_, _ = svc.RegisterEntry(ctx, "AL001")
	_, _ = svc.RegisterEntry(ctx, "AL001")
	_, _ = svc.RegisterEntry(ctx, "")
	_, _ = svc.CancelWaiting(ctx, "AL001")

	got := counterByLabel(t, m, "gymgate_rejections_total", "kind")
	assert.Equal(t, map[string]float64{
		"not_inside":     1,
		"already_inside": 1,
		"invalid_id":     1,
		"not_waiting":    1,
	}, got)
}
