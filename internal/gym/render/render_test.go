package render_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/gymgate/internal/gym/render"
	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
	"github.com/BrandonDHaskell/gymgate/internal/gym/service"
)

func newEngine(t *testing.T, capacity int) *service.AdmissionService {
	t.Helper()
	dir, err := roster.NewDirectory([]roster.Member{
		{Key: "AL001", Name: "Ana", Category: roster.CategoryUniversity},
		{Key: "PR002", Name: "Pablo", Category: roster.CategoryHighSchool},
		{Key: "TO003", Name: "Teresa", Category: roster.CategoryStaff},
	})
	require.NoError(t, err)

	at := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	svc, err := service.NewAdmissionService(dir, capacity, service.WithClock(func() time.Time { return at }))
	require.NoError(t, err)
	return svc
}

func TestStatus_ListsInsideAndWaiting(t *testing.T) {
	svc := newEngine(t, 1)
	ctx := context.Background()
	_, err := svc.RegisterEntry(ctx, "AL001")
	require.NoError(t, err)
	_, err = svc.RegisterEntry(ctx, "PR002")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.Status(&buf, svc.Snapshot()))
	out := buf.String()

	assert.Contains(t, out, "Spaces remaining: 0 of 1")
	assert.Contains(t, out, "AL001")
	assert.Contains(t, out, "Ana")
	assert.Regexp(t, `1\s+PR002\s+Pablo`, out)
}

func TestStatus_Empty(t *testing.T) {
	svc := newEngine(t, 3)

	var buf bytes.Buffer
	require.NoError(t, render.Status(&buf, svc.Snapshot()))

	assert.Contains(t, buf.String(), "Spaces remaining: 3 of 3")
	assert.Equal(t, 2, strings.Count(buf.String(), "(none)"))
}

func TestLog_MarksOpenRecords(t *testing.T) {
	svc := newEngine(t, 3)
	ctx := context.Background()
	_, err := svc.RegisterEntry(ctx, "TO003")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.Log(&buf, svc.DayLog()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Teresa")
	assert.Contains(t, lines[1], "staff")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), "-"))
}

func TestSummary_AllCategoriesAndUnavailablePeriods(t *testing.T) {
	svc := newEngine(t, 3)
	_, err := svc.RegisterEntry(context.Background(), "AL001")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.Summary(&buf, svc.Summary()))
	out := buf.String()

	assert.Regexp(t, `university\s+1`, out)
	assert.Regexp(t, `high_school\s+0`, out)
	assert.Regexp(t, `staff\s+0`, out)
	assert.Regexp(t, `total\s+1`, out)
	assert.Contains(t, out, "Weekly: data not available")
	assert.Contains(t, out, "Monthly: data not available")
}

func TestOutcomeAndRejection(t *testing.T) {
	svc := newEngine(t, 1)
	ctx := context.Background()

	res, err := svc.RegisterEntry(ctx, "1")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, render.Outcome(&buf, res))
	assert.Contains(t, buf.String(), "Welcome Ana (AL001)")

	res, err = svc.RegisterEntry(ctx, "2")
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, render.Outcome(&buf, res))
	assert.Contains(t, buf.String(), "position 1")

	_, err = svc.RegisterEntry(ctx, "AL001")
	require.Error(t, err)
	buf.Reset()
	require.NoError(t, render.Rejection(&buf, err))
	assert.Equal(t, "Ana is already inside\n", buf.String())

	_, err = svc.RegisterEntry(ctx, "999")
	require.Error(t, err)
	buf.Reset()
	require.NoError(t, render.Rejection(&buf, err))
	assert.Equal(t, "Identifier not found\n", buf.String())
}
