package datastore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/choiben-assist/ai-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(config.DataStoreConfig{URL: srv.URL, AnonKey: "anon", Timeout: 2 * time.Second, Retries: 3}, nil)
	c.httpClient.Transport = &http.Transport{DisableKeepAlives: true}
	c.retryDelay = time.Millisecond
	return c
}

func TestNotesProjectFromPreferences(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, profilesPath, r.URL.Path)
		assert.Equal(t, "eq.u1", r.URL.Query().Get("id"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"u1","learning_preferences":{"scrapbox_project":"study-log"},"scrapbox_project":"ignored"}]`))
	})

	project, err := c.NotesProject(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "study-log", project)
}

func TestNotesProjectTopLevelFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"u1","learning_preferences":null,"scrapbox_project":"top"}]`))
	})

	project, err := c.NotesProject(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "top", project)
}

func TestProfileNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	_, err := c.NotesProject(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetProfileRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"u1"}]`))
	})

	p, err := c.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetProfileDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.GetProfile(context.Background(), "u1")
	assert.ErrorContains(t, err, "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestUpdateNotesProjectKeepsOtherPreferences(t *testing.T) {
	var patched map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":"u1","learning_preferences":{"pace":"slow"}}]`))
		case http.MethodPatch:
			assert.Equal(t, "eq.u1", r.URL.Query().Get("id"))
			body, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(body, &patched))
			w.WriteHeader(http.StatusNoContent)
		}
	})

	require.NoError(t, c.UpdateNotesProject(context.Background(), "u1", "new-proj"))
	assert.Equal(t, map[string]any{
		"learning_preferences": map[string]any{"pace": "slow", "scrapbox_project": "new-proj"},
	}, patched)
}

func TestUpdateNotesProjectRejectsUnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[{"id":"u1"}]`))
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	assert.Error(t, c.UpdateNotesProject(context.Background(), "u1", "p"))
}

func TestNotConfigured(t *testing.T) {
	c := New(config.DataStoreConfig{}, nil)
	assert.False(t, c.Configured())
	_, err := c.GetProfile(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
