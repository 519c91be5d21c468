package policy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavedesk/internal/platform/sentinel"
)

var fixedNow = time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewStore(), Options{Clock: func() time.Time { return fixedNow }})
}

func loadDemo(t *testing.T) *Service {
	t.Helper()
	svc := newTestService(t)
	n, err := svc.LoadFile(context.Background(), filepath.Join("testdata", "demo.yaml"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	return svc
}

func TestAddAndGetRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, replaced, err := svc.Add(ctx, AddInput{
		ID:       "POL001",
		Title:    "Annual Leave Policy",
		Content:  "All full-time employees are entitled to 20 days of annual leave.",
		Category: "annual",
	})
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, CategoryAnnual, doc.Category)
	assert.Equal(t, 11, doc.WordCount)
	assert.Equal(t, fixedNow, doc.CreatedAt)

	got, err := svc.Get(ctx, "POL001")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.Equal(t, "Annual Leave Policy", got.Title)

	_, err = svc.Get(ctx, "POL999")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   AddInput
	}{
		{"blank id", AddInput{Title: "T", Content: "c"}},
		{"blank title", AddInput{ID: "P1", Content: "c"}},
		{"unknown category", AddInput{ID: "P1", Title: "T", Category: "Parental"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Add(ctx, tc.in)
			assert.ErrorIs(t, err, sentinel.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, svc.Store.Len())

	doc, _, err := svc.Add(ctx, AddInput{ID: "P1", Title: "T", Content: ""})
	require.NoError(t, err)
	assert.Equal(t, CategoryGeneral, doc.Category)
	assert.Equal(t, 0, doc.WordCount)
}

func TestOverwriteKeepsPosition(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"A", "B", "C"} {
		_, _, err := svc.Add(ctx, AddInput{ID: id, Title: "Doc " + id, Content: "text"})
		require.NoError(t, err)
	}

	_, replaced, err := svc.Add(ctx, AddInput{ID: "A", Title: "Doc A v2", Content: "new text here"})
	require.NoError(t, err)
	assert.True(t, replaced)

	docs := svc.List(ctx, "")
	require.Len(t, docs, 3)
	assert.Equal(t, "A", docs[0].ID)
	assert.Equal(t, "Doc A v2", docs[0].Title)
	assert.Equal(t, 3, docs[0].WordCount)
}

func TestListByCategory(t *testing.T) {
	svc := loadDemo(t)
	docs := svc.List(context.Background(), "SICK")
	require.Len(t, docs, 1)
	assert.Equal(t, "POL002", docs[0].ID)

	assert.Len(t, svc.List(context.Background(), ""), 4)
	assert.Empty(t, svc.List(context.Background(), "Benefits"))
}

func TestSearchScoresAndExcludes(t *testing.T) {
	svc := loadDemo(t)

	results := svc.Search(context.Background(), "annual leave entitlement", "", 10)
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.PolicyID)
	}
	assert.Equal(t, []string{"POL001", "POL003", "POL002"}, ids)
	assert.Equal(t, 26, results[0].Score)
	assert.Equal(t, 16, results[1].Score)
	assert.Equal(t, 14, results[2].Score)
	assert.NotContains(t, ids, "POL004")
}

func TestSearchDefaultsAndFilters(t *testing.T) {
	svc := loadDemo(t)
	ctx := context.Background()

	assert.Len(t, svc.Search(ctx, "employees", "", 0), DefaultMaxResults)
	assert.Len(t, svc.Search(ctx, "employees", "", 1), 1)
	assert.Empty(t, svc.Search(ctx, "   ", "", 3))
	assert.Empty(t, svc.Search(ctx, "xyzzy", "", 3))

	results := svc.Search(ctx, "leave", "emergency", 3)
	require.Len(t, results, 1)
	assert.Equal(t, "POL003", results[0].PolicyID)
	assert.Equal(t, CategoryEmergency, results[0].Category)
}

func TestSearchStableOnTies(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"T1", "T2", "T3"} {
		_, _, err := svc.Add(ctx, AddInput{ID: id, Title: "Doc", Content: "holiday"})
		require.NoError(t, err)
	}
	results := svc.Search(ctx, "holiday", "", 3)
	require.Len(t, results, 3)
	for i, id := range []string{"T1", "T2", "T3"} {
		assert.Equal(t, id, results[i].PolicyID)
		assert.Equal(t, 1, results[i].Score)
	}
}

func TestScoreCountsSubstrings(t *testing.T) {
	words := []string{"leave", "annual"}
	assert.Equal(t, 10+10+2+1, Score(words, "Annual Leave", "leave leaves annual"))
	assert.Equal(t, 0, Score([]string{"sick"}, "Annual", "annual leave"))
}

func TestExcerpt(t *testing.T) {
	exact := strings.Repeat("a", 300)
	assert.Equal(t, exact, Excerpt(exact))

	long := strings.Repeat("b", 301)
	assert.Equal(t, strings.Repeat("b", 300)+"...", Excerpt(long))

	wide := strings.Repeat("é", 301)
	got := Excerpt(wide)
	assert.Equal(t, strings.Repeat("é", 300)+"...", got)
}

func TestAnswerLowConfidence(t *testing.T) {
	svc := loadDemo(t)
	ans := svc.Answer(context.Background(), "xyzzy plugh", "")
	assert.Equal(t, ConfidenceLow, ans.Confidence)
	assert.Empty(t, ans.Sources)
	assert.Equal(t, "I couldn't find any relevant policy documents for your question.", ans.Answer)
	assert.Empty(t, ans.ContextUsed)
}

func TestAnswerHighConfidence(t *testing.T) {
	svc := loadDemo(t)
	ans := svc.Answer(context.Background(), "annual leave entitlement", "")
	assert.Equal(t, ConfidenceHigh, ans.Confidence)
	require.Len(t, ans.Sources, 3)
	assert.Equal(t, Source{Title: "Annual Leave Policy", PolicyID: "POL001"}, ans.Sources[0])
	assert.True(t, strings.HasPrefix(ans.Answer, "Based on the available policies, here's what I found:\n\n1. From 'Annual Leave Policy' (Annual):\n   "))
	assert.Contains(t, ans.Answer, "2. From 'Emergency Leave Policy' (Emergency):")
	assert.True(t, strings.HasPrefix(ans.ContextUsed, "[Annual Leave Policy]\nAll full-time employees"))
	assert.Contains(t, ans.ContextUsed, "\n\n[Emergency Leave Policy]\n")
}

func TestAnswerMediumConfidence(t *testing.T) {
	svc := loadDemo(t)
	ans := svc.Answer(context.Background(), "remote", "")
	assert.Equal(t, ConfidenceMedium, ans.Confidence)
	require.Len(t, ans.Sources, 1)
	doc, err := svc.Get(context.Background(), "POL004")
	require.NoError(t, err)
	want := "Based on the available policies, here's what I found:\n\n" +
		"1. From 'Remote Work Policy' (Remote):\n   " + Excerpt(doc.Content) + "\n\n"
	assert.Equal(t, want, ans.Answer)
}

func TestLoadDirSkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	write("b.yml", "id: B1\ntitle: Benefits Overview\ncategory: benefits\ncontent: Health cover for all staff\n")
	write("a.yaml", "policies:\n  - id: A1\n    title: Code of Conduct\n    content: Be kind\n")
	write("notes.txt", "id: X\ntitle: ignored\n")
	write(".hidden.yaml", "id: H\ntitle: hidden\n")

	svc := newTestService(t)
	n, err := svc.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	docs := svc.List(context.Background(), "")
	require.Len(t, docs, 2)
	assert.Equal(t, "A1", docs[0].ID)
	assert.Equal(t, CategoryGeneral, docs[0].Category)
	assert.Equal(t, CategoryBenefits, docs[1].Category)
	assert.Equal(t, 5, docs[1].WordCount)
}

func TestLoadDirInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: Z1\ntitle: Bad\ncategory: Parental\n"), 0o600))

	svc := newTestService(t)
	_, err := svc.LoadDir(context.Background(), dir)
	assert.ErrorIs(t, err, sentinel.ErrInvalidInput)

	_, err = svc.LoadDir(context.Background(), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestDemoWordCounts(t *testing.T) {
	svc := loadDemo(t)
	want := map[string]int{"POL001": 56, "POL002": 43, "POL003": 41, "POL004": 47}
	for id, count := range want {
		doc, err := svc.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, count, doc.WordCount, id)
	}
}
