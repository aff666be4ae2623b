// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendyaziz/quran-reader/internal/core/quran"
)

func newVerseRouter(t *testing.T, rows int) http.Handler {
	t.Helper()

	store, _ := newStore(t)
	seedStore(t, store, rows)

	router := chi.NewRouter()
	quran.NewHandler(quran.NewReader(store, quran.DefaultBasmallah())).RegisterRoutes(router)
	return router
}

/*
TestHandler_ListVerses checks the paginated envelope.
*/
func TestHandler_ListVerses(t *testing.T) {
	router := newVerseRouter(t, 45)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/verses?page=3&limit=20", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []quran.Ayah `json:"data"`
		Meta struct {
			Page       int `json:"page"`
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []float64{4.5, 41, 42, 43, 44, 45}, ids(body.Data))
	assert.True(t, body.Data[0].Marker)
	assert.Equal(t, 3, body.Meta.Page)
	assert.Equal(t, 45, body.Meta.Total)
	assert.Equal(t, 3, body.Meta.TotalPages)
}

/*
TestHandler_GetVerse checks single lookups and their failures.
*/
func TestHandler_GetVerse(t *testing.T) {
	router := newVerseRouter(t, 10)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"found", "/verses/7", http.StatusOK, ""},
		{"missing", "/verses/700", http.StatusNotFound, "NOT_FOUND"},
		{"not_a_number", "/verses/abc", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero", "/verses/0", http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, recorder.Code)

			if tt.code != "" {
				var body struct {
					Code string `json:"code"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, tt.code, body.Code)
			}
		})
	}
}

/*
TestHandler_ListSurahVerses checks the surah endpoint.
*/
func TestHandler_ListSurahVerses(t *testing.T) {
	router := newVerseRouter(t, 20)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/surahs/2/verses", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []quran.Ayah `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, append([]float64{1.5}, idRange(11, 20)...), ids(body.Data))
}
