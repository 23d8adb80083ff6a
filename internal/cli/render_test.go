package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/pvaneck/refstack/internal/evaluate"
	"github.com/pvaneck/refstack/internal/index"
	"github.com/pvaneck/refstack/internal/parser"
)

func TestRenderReport(t *testing.T) {
	doc, err := parser.Parse([]byte(testGuideline))
	require.NoError(t, err)

	idx := index.New(doc)
	report, err := evaluate.EvaluateAll(idx, nil, evaluate.NewSubmission([]string{"t1"}))
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderReport(&buf, report)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "render_partial_report", buf.Bytes())
}
