package handlers_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchView struct {
	Count   int `json:"resultsFound"`
	Results []struct {
		PolicyID string `json:"policyId"`
		Score    int    `json:"relevanceScore"`
	} `json:"results"`
}

type answerView struct {
	Answer     string `json:"answer"`
	Confidence string `json:"confidence"`
	Sources    []struct {
		PolicyID string `json:"policyId"`
	} `json:"sources"`
}

func TestPolicySearchAndAsk(t *testing.T) {
	_, ts := newTestServer(t, testConfig())
	client := ts.Client()
	api := ts.URL + "/api/v1"

	found := decodeData[searchView](t, getJSON(t, client, api+"/policies/search?q=annual+leave+entitlement", http.StatusOK))
	require.Equal(t, 3, found.Count)
	assert.Equal(t, "POL001", found.Results[0].PolicyID)
	assert.Equal(t, 26, found.Results[0].Score)
	assert.Equal(t, "POL003", found.Results[1].PolicyID)
	assert.Equal(t, "POL002", found.Results[2].PolicyID)

	limited := decodeData[searchView](t, getJSON(t, client, api+"/policies/search?q=annual+leave+entitlement&limit=1", http.StatusOK))
	assert.Equal(t, 1, limited.Count)

	scoped := decodeData[searchView](t, getJSON(t, client, api+"/policies/search?q=annual+leave+entitlement&category=sick", http.StatusOK))
	require.Equal(t, 1, scoped.Count)
	assert.Equal(t, "POL002", scoped.Results[0].PolicyID)

	getJSON(t, client, api+"/policies/search", http.StatusBadRequest)
	getJSON(t, client, api+"/policies/search?q=leave&limit=0", http.StatusBadRequest)

	high := decodeData[answerView](t, postJSON(t, client, api+"/policies/ask", map[string]any{"question": "annual leave entitlement"}, http.StatusOK))
	assert.Equal(t, "high", high.Confidence)
	assert.Len(t, high.Sources, 3)

	low := decodeData[answerView](t, postJSON(t, client, api+"/policies/ask", map[string]any{"question": "quantum"}, http.StatusOK))
	assert.Equal(t, "low", low.Confidence)
	assert.Empty(t, low.Sources)

	postJSON(t, client, api+"/policies/ask", map[string]any{"question": "  "}, http.StatusBadRequest)
}

func TestPolicyCatalogue(t *testing.T) {
	_, ts := newTestServer(t, testConfig())
	client := ts.Client()
	api := ts.URL + "/api/v1"

	payload := map[string]any{
		"policyId": "POL100",
		"title":    "Parental Leave Policy",
		"content":  "Parents receive sixteen weeks of paid leave.",
		"category": "benefits",
	}
	created := decodeData[struct {
		Category  string `json:"category"`
		WordCount int    `json:"wordCount"`
		Replaced  bool   `json:"replaced"`
	}](t, postJSON(t, client, api+"/policies", payload, http.StatusCreated))
	assert.Equal(t, "Benefits", created.Category)
	assert.Equal(t, 7, created.WordCount)
	assert.False(t, created.Replaced)

	payload["title"] = "Parental Leave Policy v2"
	replaced := postJSON(t, client, api+"/policies", payload, http.StatusOK)
	assert.Contains(t, string(replaced.Data), `"replaced":true`)

	doc := decodeData[struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}](t, getJSON(t, client, api+"/policies/POL100", http.StatusOK))
	assert.Equal(t, "Parental Leave Policy v2", doc.Title)
	assert.Equal(t, "Parents receive sixteen weeks of paid leave.", doc.Content)

	all := decodeData[[]map[string]any](t, getJSON(t, client, api+"/policies", http.StatusOK))
	assert.Len(t, all, 5)
	sick := decodeData[[]map[string]any](t, getJSON(t, client, api+"/policies?category=Sick", http.StatusOK))
	assert.Len(t, sick, 1)

	bad := postJSON(t, client, api+"/policies", map[string]any{"policyId": "POL101", "title": "X", "content": "y", "category": "Travel"}, http.StatusBadRequest)
	assert.Equal(t, "invalid_input", bad.Error.Code)

	getJSON(t, client, api+"/policies/POL999", http.StatusNotFound)

	cats := decodeData[[]string](t, getJSON(t, client, api+"/policies/categories", http.StatusOK))
	assert.Contains(t, cats, "General")

	reload := postJSON(t, client, api+"/policies/reload", nil, http.StatusConflict)
	assert.Equal(t, "invalid_state", reload.Error.Code)
}

func TestPolicyReloadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writePolicyFile(t, dir, "travel.yaml", `
policies:
  - id: POL200
    title: Travel Policy
    category: General
    content: Book travel through the company portal.
`)

	cfg := testConfig()
	cfg.RunSeed = false
	cfg.PolicyDir = dir
	_, ts := newTestServer(t, cfg)
	client := ts.Client()
	api := ts.URL + "/api/v1"

	listed := decodeData[[]map[string]any](t, getJSON(t, client, api+"/policies", http.StatusOK))
	assert.Len(t, listed, 1)

	writePolicyFile(t, dir, "remote.yml", `
id: POL201
title: Hybrid Work Policy
category: Remote
content: Staff may work remotely two days a week.
`)
	reloaded := decodeData[struct {
		Loaded int `json:"loaded"`
		Total  int `json:"total"`
	}](t, postJSON(t, client, api+"/policies/reload", nil, http.StatusOK))
	assert.Equal(t, 2, reloaded.Loaded)
	assert.Equal(t, 2, reloaded.Total)

	runs := decodeData[struct {
		Runs []struct {
			Type   string `json:"jobType"`
			Status string `json:"status"`
		} `json:"runs"`
	}](t, getJSON(t, client, api+"/jobs/runs", http.StatusOK))
	require.NotEmpty(t, runs.Runs)
	assert.Equal(t, "policy_reload", runs.Runs[0].Type)
	assert.Equal(t, "completed", runs.Runs[0].Status)
}

func writePolicyFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}
