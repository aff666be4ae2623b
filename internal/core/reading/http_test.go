// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reading_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendyaziz/quran-reader/internal/core/reading"
)

func newReaderRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	reading.NewHandler(f.session).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, path, strings.NewReader(body)))
	return recorder
}

/*
TestHandler_RequiresInitialization checks the 503 gate on window endpoints.
*/
func TestHandler_RequiresInitialization(t *testing.T) {
	f := newFixture(t, 60)
	router := newReaderRouter(f)

	for _, path := range []string{"/reader", "/reader/more", "/reader/previous"} {
		method := http.MethodPost
		if path == "/reader" {
			method = http.MethodGet
		}

		recorder := serve(router, method, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code, path)
	}

	recorder := serve(router, http.MethodGet, "/reader/progress", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data struct {
			IsInitialized bool             `json:"is_initialized"`
			Progress      reading.Progress `json:"population_progress"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.False(t, body.Data.IsInitialized)
	assert.Equal(t, 60, body.Data.Progress.Total)
}

/*
TestHandler_Window checks snapshot and window growth once initialized.
*/
func TestHandler_Window(t *testing.T) {
	f := newFixture(t, 200)
	require.NoError(t, f.session.LoadInitialData(context.Background()))
	router := newReaderRouter(f)

	recorder := serve(router, http.MethodGet, "/reader", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(router, http.MethodPost, "/reader/more", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data reading.State `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.EndLoadedPage)
	assert.True(t, body.Data.HasMore)
}

/*
TestHandler_Refresh checks that refresh initializes a fresh session.
*/
func TestHandler_Refresh(t *testing.T) {
	f := newFixture(t, 45)
	router := newReaderRouter(f)

	recorder := serve(router, http.MethodPost, "/reader/refresh", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, f.session.Snapshot().IsInitialized)
}

/*
TestHandler_UpdateLastRead checks payload validation and persistence.
*/
func TestHandler_UpdateLastRead(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"id":42,"ayah":2}`, http.StatusOK},
		{"without_ayah", `{"id":7}`, http.StatusOK},
		{"zero_id", `{"id":0}`, http.StatusBadRequest},
		{"zero_ayah", `{"id":3,"ayah":0}`, http.StatusBadRequest},
		{"invalid_json", `{"id":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 20)
			router := newReaderRouter(f)

			recorder := serve(router, http.MethodPut, "/reader/last-read", tt.body)
			assert.Equal(t, tt.status, recorder.Code)

			_, saved := f.slots.value("lastReadAyah")
			assert.Equal(t, tt.status == http.StatusOK, saved)
		})
	}
}
