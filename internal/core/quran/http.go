// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/dendyaziz/quran-reader/internal/platform/request"
	"github.com/dendyaziz/quran-reader/internal/platform/respond"
	"github.com/dendyaziz/quran-reader/pkg/pagination"
)

// # Handler Implementation

// Handler exposes the cached dataset over HTTP.
type Handler struct {
	reader *Reader
}

// NewHandler constructs a new verse [Handler].
func NewHandler(reader *Reader) *Handler {
	return &Handler{reader: reader}
}

// RegisterRoutes attaches the read-only verse endpoints to the API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/verses", handler.ListVerses)
	api.Get("/verses/{id}", handler.GetVerse)
	api.Get("/surahs/{surahID}/verses", handler.ListSurahVerses)
}

/*
GET /api/v1/verses.

Description: Returns one page of the cached dataset in reading order, with a
basmallah marker before every surah opening.

Request:
  - page: int (default 1)
  - limit: int (default 20, max 300)

Response:
  - 200: []Ayah + pagination.Meta
*/
func (handler *Handler) ListVerses(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	ayahs, err := handler.reader.GetPage(request.Context(), params.Page, params.Limit)
	if err != nil {
		respond.Error(writer, request, ToAppError(err))
		return
	}

	count, _, err := handler.reader.Total(request.Context(), params.Limit)
	if err != nil {
		respond.Error(writer, request, ToAppError(err))
		return
	}

	respond.Paginated(writer, ayahs, pagination.NewMeta(params.Page, params.Limit, count))
}

/*
GET /api/v1/verses/{id}.

Description: Returns a single cached ayah by its global id.

Response:
  - 200: Ayah
  - 400: VALIDATION_ERROR: id is not a positive integer
  - 404: NOT_FOUND: Ayah not cached
*/
func (handler *Handler) GetVerse(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.PositiveInt(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ayah, err := handler.reader.Ayah(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, ToAppError(err))
		return
	}

	respond.OK(writer, ayah)
}

/*
GET /api/v1/surahs/{surahID}/verses.

Description: Returns every cached ayah of a surah, led by its marker.

Response:
  - 200: []Ayah
  - 400: VALIDATION_ERROR: surahID is not a positive integer
*/
func (handler *Handler) ListSurahVerses(writer http.ResponseWriter, request *http.Request) {
	surahID, err := requestutil.PositiveInt(request, "surahID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ayahs, err := handler.reader.Surah(request.Context(), surahID)
	if err != nil {
		respond.Error(writer, request, ToAppError(err))
		return
	}

	respond.OK(writer, ayahs)
}
