package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvaneck/refstack/internal/evaluate"
	"github.com/pvaneck/refstack/internal/guideline"
	"github.com/pvaneck/refstack/internal/index"
)

func sampleReport(t *testing.T, passed []string) *evaluate.Report {
	t.Helper()

	doc := &guideline.Document{
		Version: "2026.01",
		Components: []guideline.Component{
			{
				Name: "object-core",
				Capabilities: []guideline.Capability{
					{
						ID:     "object-container-create",
						Status: guideline.StatusRequired,
						Tests:  []guideline.TestSpec{{Name: "t1"}, {Name: "t2"}},
					},
				},
			},
		},
		Targets: map[string][]string{"object": {"object-core"}},
	}

	report, err := evaluate.EvaluateAll(index.New(doc), nil, evaluate.NewSubmission(passed))
	require.NoError(t, err)
	return report
}

func TestStoreReport_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runID, err := s.StoreRun(ctx, Run{CPID: "cloud-1", Results: []string{"t1", "t2"}})
	require.NoError(t, err)

	report := sampleReport(t, []string{"t1", "t2"})
	require.NoError(t, s.StoreReport(ctx, runID, report))

	stored, err := s.GetReport(ctx, runID, "2026.01")
	require.NoError(t, err)

	assert.True(t, stored.Overall)
	assert.Equal(t, "2026.01", stored.GuidelineVersion)

	wantPayload, err := report.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, wantPayload, stored.Payload, "stored payload is the canonical form")

	wantHash, err := report.Hash()
	require.NoError(t, err)
	assert.Equal(t, wantHash, stored.Hash)
}

func TestStoreReport_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runID, err := s.StoreRun(ctx, Run{CPID: "cloud-1", Results: []string{"t1"}})
	require.NoError(t, err)

	report := sampleReport(t, []string{"t1"})
	require.NoError(t, s.StoreReport(ctx, runID, report))
	require.NoError(t, s.StoreReport(ctx, runID, report))

	stored, err := s.GetReport(ctx, runID, "2026.01")
	require.NoError(t, err)
	assert.False(t, stored.Overall, "partial evidence is non-compliant")
}

func TestGetReport_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetReport(context.Background(), "nope", "2026.01")
	assert.ErrorIs(t, err, ErrReportNotFound)
}
