package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-m/pocketwatch/internal/report"
)

type stubClient struct {
	response string
	err      error
	calls    int
}

func (s *stubClient) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testSummary() report.Summary {
	return report.Summary{
		Income:      500,
		Expenses:    200,
		Balance:     300,
		SavingsRate: 60,
		TopCategories: []report.CategoryTotal{
			{Name: "Food", Amount: 120, Percent: 60},
			{Name: "Travel", Amount: 80, Percent: 40},
		},
	}
}

func newTestGenerator(t *testing.T, client Client) *Generator {
	t.Helper()
	gen, err := NewGenerator(client, Config{MaxRetries: 1}, nil)
	require.NoError(t, err)
	return gen
}

func TestGenerator_Insights(t *testing.T) {
	client := &stubClient{response: `["Cut travel spending.", "Keep the savings rate."]`}
	gen := newTestGenerator(t, client)

	got := gen.Insights(context.Background(), testSummary(), "June 1 - 30, 2024")
	assert.Equal(t, []string{"Cut travel spending.", "Keep the savings rate."}, got)
}

func TestGenerator_Insights_FencedResponse(t *testing.T) {
	client := &stubClient{response: "```json\n[\"Fenced insight.\"]\n```"}
	gen := newTestGenerator(t, client)

	got := gen.Insights(context.Background(), testSummary(), "June 1 - 30, 2024")
	assert.Equal(t, []string{"Fenced insight."}, got)
}

func TestGenerator_Insights_ProviderErrorDegrades(t *testing.T) {
	client := &stubClient{err: errors.New("upstream unavailable")}
	gen := newTestGenerator(t, client)

	got := gen.Insights(context.Background(), testSummary(), "June 1 - 30, 2024")
	assert.Empty(t, got, "provider failure must degrade to no insights")
	assert.NotNil(t, got)
}

func TestGenerator_Insights_GarbageResponseDegrades(t *testing.T) {
	client := &stubClient{response: "I'm sorry, I can't help with that."}
	gen := newTestGenerator(t, client)

	got := gen.Insights(context.Background(), testSummary(), "June 1 - 30, 2024")
	assert.Empty(t, got)
}

func TestGenerator_Insights_CachesByPrompt(t *testing.T) {
	client := &stubClient{response: `["Cached insight."]`}
	gen := newTestGenerator(t, client)

	first := gen.Insights(context.Background(), testSummary(), "June 1 - 30, 2024")
	require.Equal(t, []string{"Cached insight."}, first)

	// The cache applies writes asynchronously.
	gen.cache.Wait()

	second := gen.Insights(context.Background(), testSummary(), "June 1 - 30, 2024")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls, "identical summary must hit the cache")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt(testSummary(), "June 1 - 30, 2024")
	b := BuildPrompt(testSummary(), "June 1 - 30, 2024")
	assert.Equal(t, a, b)

	for _, fragment := range []string{
		"June 1 - 30, 2024",
		"500.00",
		"200.00",
		"300.00",
		"60.0%",
		"Food: 120.00 (60% of expenses)",
		"Travel: 80.00 (40% of expenses)",
		"JSON array",
	} {
		assert.True(t, strings.Contains(a, fragment), "prompt missing %q", fragment)
	}
}
