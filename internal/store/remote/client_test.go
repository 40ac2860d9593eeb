package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
	"github.com/Makepad-fr/tada-remote/internal/store/remote"
)

func TestCollectionClient(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()

	mux.HandleFunc("/api/todos", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.Method {
		case http.MethodGet:
			// numeric ids, the way hosted mock APIs send them
			_, _ = w.Write([]byte(`[{"id":1,"label":"Buy milk","checked":false}]`))
		case http.MethodPost:
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			if _, ok := in["id"]; ok {
				http.Error(w, "id must not be sent", http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "label": in["label"], "checked": in["checked"]})
		}
	})
	mux.HandleFunc("/api/todos/1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			var in model.Item
			_ = json.NewDecoder(r.Body).Decode(&in)
			_ = json.NewEncoder(w).Encode(in)
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"id":"1","label":"Buy milk","checked":true}`))
		}
	})
	mux.HandleFunc("/api/todos/404", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `"Not found"`, http.StatusNotFound)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := remote.NewClient(ts.URL+"/api/", remote.Options{Token: func() string { return "test-token" }})
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		items, err := client.List(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, []model.Item{{ID: "1", Label: "Buy milk"}}, items)
		assert.Equal(t, "Bearer test-token", gotAuth)
	})

	t.Run("Create", func(t *testing.T) {
		out, err := client.Create(ctx, "todos", model.Item{ID: "ignored", Label: "Call mom"})
		require.NoError(t, err)
		assert.Equal(t, model.Item{ID: "7", Label: "Call mom"}, out)
	})

	t.Run("Update", func(t *testing.T) {
		out, err := client.Update(ctx, "todos", "1", model.Item{Label: "Buy milk", Checked: true})
		require.NoError(t, err)
		assert.Equal(t, model.Item{ID: "1", Label: "Buy milk", Checked: true}, out)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, client.Remove(ctx, "todos", "1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		err := client.Remove(ctx, "todos", "404")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrNotFound)
		var se *remote.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.Status)
		assert.Equal(t, "remove", se.Op)
	})

	t.Run("InvalidCollection", func(t *testing.T) {
		_, err := client.List(ctx, "../admin")
		assert.Error(t, err)
	})
}

func TestClientOmitsAuthWithoutToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`null`))
	}))
	defer ts.Close()

	items, err := remote.NewClient(ts.URL, remote.Options{}).List(context.Background(), "todos")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClientServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := remote.NewClient(ts.URL, remote.Options{}).List(context.Background(), "todos")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "500")
}

func TestClientTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer ts.Close()

	client := remote.NewClient(ts.URL, remote.Options{Timeout: 50 * time.Millisecond})
	_, err := client.List(context.Background(), "todos")
	assert.Error(t, err)
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := remote.NewClient(ts.URL, remote.Options{RatePerSec: 0.001, Burst: 1})
	_, err := client.List(context.Background(), "todos")
	require.NoError(t, err, "first request uses the burst")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.List(ctx, "todos")
	assert.Error(t, err)
}

func TestClientRetriesTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set("Retry-After", "0")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	err := remote.NewClient(ts.URL, remote.Options{}).Remove(context.Background(), "todos", "1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientGivesUpAfterRepeatedTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := remote.NewClient(ts.URL, remote.Options{}).List(context.Background(), "todos")
	var se *remote.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.Status)
	assert.Equal(t, int32(6), calls.Load())
}

func TestClientRetryWaitHonoursContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := remote.NewClient(ts.URL, remote.Options{}).List(ctx, "todos")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
