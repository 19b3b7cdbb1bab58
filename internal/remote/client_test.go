package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/wordsync/internal/domain"
)

func TestReconcileVocabulary(t *testing.T) {
	cursor := int64(1700000000000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sync/vocabulary", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req domain.UploadRequest[domain.VocabularyItem]
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "device-1", req.DeviceID)
		require.NotNil(t, req.LastSyncTime)
		assert.Equal(t, cursor, *req.LastSyncTime)
		require.Len(t, req.Operations, 1)
		assert.Equal(t, domain.OpCreate, req.Operations[0].Kind)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"operations":[{"id":"op-9","entityType":"vocabulary","operation":"update",
			"data":{"id":"w9","sourceText":"katze","targetText":"cat","tags":["animals"],"status":"new",
			"version":2,"createdAt":1,"updatedAt":2,"isDeleted":true},"timestamp":2}]}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Token: "secret"})
	ops, err := client.ReconcileVocabulary(context.Background(), domain.UploadRequest[domain.VocabularyItem]{
		LastSyncTime: &cursor,
		DeviceID:     "device-1",
		Operations: []domain.Operation[domain.VocabularyItem]{{
			ID:         "op-1",
			EntityType: domain.EntityVocabulary,
			Kind:       domain.OpCreate,
			Data:       domain.VocabularyItem{ID: "w1", SourceText: "hund"},
		}},
	})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "w9", ops[0].Data.ID)
	assert.Equal(t, domain.Tags{"animals"}, ops[0].Data.Tags)
	assert.True(t, ops[0].Data.IsDeleted)
	assert.Equal(t, int64(2), ops[0].Data.UpdatedAt)
}

func TestReconcileFullSyncSendsNullCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync/reviews", r.URL.Path)
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "null", string(body["lastSyncTime"]))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"operations":[{"id":"op-1","entityType":"reviews","operation":"update",
			"data":{"vocabId":"w1","totalReviews":2,"correctCount":1,"incorrectCount":1},"timestamp":5}]}`))
	}))
	defer server.Close()

	ops, err := New(Config{BaseURL: server.URL, Token: "t"}).ReconcileReviews(context.Background(), domain.UploadRequest[domain.ReviewRecord]{DeviceID: "d"})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, 2, ops[0].Data.TotalReviews)
}

func TestReconcileStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"stats":[{"date":"2026-02-10","cardsReviewed":10,"newWordsAdded":1,"accuracyRate":0.9,"updatedAt":99}]}`))
	}))
	defer server.Close()

	stats, err := New(Config{BaseURL: server.URL, Token: "t"}).ReconcileStats(context.Background(), domain.UploadRequest[domain.DailyStat]{})
	require.NoError(t, err)
	assert.Equal(t, []domain.DailyStat{{Date: "2026-02-10", CardsReviewed: 10, NewWordsAdded: 1, AccuracyRate: 0.9, UpdatedAt: 99}}, stats)
}

func TestReconcileErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrUnauthorized},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			_, err := New(Config{BaseURL: server.URL, Token: "t"}).ReconcileVocabulary(context.Background(), domain.UploadRequest[domain.VocabularyItem]{})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.ErrorContains(t, err, "status code: 500")
			}
		})
	}
}

func TestProbes(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())

	client := New(Config{BaseURL: server.URL, Token: "t"})
	assert.True(t, client.Online(context.Background()))
	assert.True(t, client.Authenticated(context.Background()))
	assert.False(t, New(Config{BaseURL: server.URL}).Authenticated(context.Background()))

	server.Close()
	assert.False(t, client.Online(context.Background()))
	assert.False(t, New(Config{BaseURL: "::not a url"}).Online(context.Background()))
}

func TestDialAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://sync.example.com", want: "sync.example.com:443"},
		{in: "http://sync.example.com/api", want: "sync.example.com:80"},
		{in: "http://127.0.0.1:8080", want: "127.0.0.1:8080"},
	}
	for _, tt := range tests {
		got, err := dialAddress(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
