package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leavedesk/internal/app/server"
	"leavedesk/internal/platform/config"
)

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func testConfig() config.Config {
	return config.Config{
		Addr:                 ":0",
		Environment:          "test",
		LogLevel:             "error",
		LogFormat:            "json",
		RunSeed:              true,
		LeaveDefaultBalance:  20,
		BalanceCheckedTypes:  "Annual",
		MaxBodyBytes:         1 << 20,
		RateLimitPerMinute:   1000,
		MetricsEnabled:       true,
		SearchDefaultResults: 3,
		ShutdownTimeout:      time.Second,
	}
}

func newTestServer(t *testing.T, cfg config.Config) (*server.App, *httptest.Server) {
	t.Helper()
	app, err := server.New(context.Background(), cfg)
	require.NoError(t, err, "failed to start app")
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		app.Close()
	})
	return app, ts
}

func doJSON(t *testing.T, client *http.Client, method, url, actor string, body any, wantStatus int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set("X-Actor-ID", actor)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equalf(t, wantStatus, resp.StatusCode, "%s %s: %s", method, url, raw)

	var env envelope
	require.NoErrorf(t, json.Unmarshal(raw, &env), "decode %s", raw)
	return env
}

func postJSON(t *testing.T, client *http.Client, url string, body any, wantStatus int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, "", body, wantStatus)
}

func getJSON(t *testing.T, client *http.Client, url string, wantStatus int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, "", nil, wantStatus)
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoErrorf(t, json.Unmarshal(env.Data, &out), "decode data %s", env.Data)
	return out
}
