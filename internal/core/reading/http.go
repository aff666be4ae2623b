// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reading

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dendyaziz/quran-reader/internal/core/quran"
	"github.com/dendyaziz/quran-reader/internal/platform/apperr"
	"github.com/dendyaziz/quran-reader/internal/platform/ctxutil"
	requestutil "github.com/dendyaziz/quran-reader/internal/platform/request"
	"github.com/dendyaziz/quran-reader/internal/platform/respond"
	"github.com/dendyaziz/quran-reader/internal/platform/validate"
)

// # Handler Implementation

// Handler exposes a [Session] over HTTP.
type Handler struct {
	session *Session
}

// NewHandler constructs a new reader [Handler].
func NewHandler(session *Session) *Handler {
	return &Handler{session: session}
}

// RegisterRoutes attaches the reader endpoints to the API router.
//
// Progress, refresh, cache clearing and position updates stay reachable while
// the session initializes; window reads wait for it.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/reader", func(reader chi.Router) {
		reader.Get("/progress", handler.GetProgress)
		reader.Post("/refresh", handler.Refresh)
		reader.Post("/clear-cache", handler.ClearCache)
		reader.Put("/last-read", handler.UpdateLastRead)

		reader.Group(func(ready chi.Router) {
			ready.Use(handler.requireInitialized)
			ready.Get("/", handler.GetSnapshot)
			ready.Post("/more", handler.LoadMore)
			ready.Post("/previous", handler.LoadPrevious)
		})
	})
}

// requireInitialized answers 503 until the session is ready.
func (handler *Handler) requireInitialized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !handler.session.Snapshot().IsInitialized {
			respond.Error(writer, request, apperr.ServiceUnavailable("The reader is still initializing"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

/*
GET /api/v1/reader.

Description: Returns the loaded window, its bounds and the session flags.

Response:
  - 200: State
  - 503: SERVICE_UNAVAILABLE: Session still initializing
*/
func (handler *Handler) GetSnapshot(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.session.Snapshot())
}

// progressResponse is the payload of GET /reader/progress.
type progressResponse struct {
	IsInitialized  bool     `json:"is_initialized"`
	IsInitializing bool     `json:"is_initializing"`
	IsPopulating   bool     `json:"is_populating"`
	Progress       Progress `json:"population_progress"`
	Percentage     int      `json:"population_percentage"`
}

/*
GET /api/v1/reader/progress.

Description: Reports the first-run population progress.

Response:
  - 200: progressResponse
*/
func (handler *Handler) GetProgress(writer http.ResponseWriter, request *http.Request) {
	state := handler.session.Snapshot()

	respond.OK(writer, progressResponse{
		IsInitialized:  state.IsInitialized,
		IsInitializing: state.IsInitializing,
		IsPopulating:   state.IsPopulating,
		Progress:       state.PopulationProgress,
		Percentage:     state.PopulationPercentage,
	})
}

/*
POST /api/v1/reader/more.

Description: Appends the next page to the window. A call made while another
load runs is a no-op.

Response:
  - 200: State
*/
func (handler *Handler) LoadMore(writer http.ResponseWriter, request *http.Request) {
	if err := handler.session.LoadMore(request.Context()); err != nil {
		respond.Error(writer, request, quran.ToAppError(err))
		return
	}
	respond.OK(writer, handler.session.Snapshot())
}

/*
POST /api/v1/reader/previous.

Description: Prepends the previous page to the window.

Response:
  - 200: State
*/
func (handler *Handler) LoadPrevious(writer http.ResponseWriter, request *http.Request) {
	if err := handler.session.LoadPrevious(request.Context()); err != nil {
		respond.Error(writer, request, quran.ToAppError(err))
		return
	}
	respond.OK(writer, handler.session.Snapshot())
}

/*
POST /api/v1/reader/refresh.

Description: Reloads the window around the last read ayah, initializing the
session first when needed.

Response:
  - 200: State
  - 503: UPSTREAM_UNAVAILABLE: Population could not reach the remote dataset
*/
func (handler *Handler) Refresh(writer http.ResponseWriter, request *http.Request) {
	if err := handler.session.Refresh(request.Context()); err != nil {
		respond.Error(writer, request, quran.ToAppError(err))
		return
	}
	respond.OK(writer, handler.session.Snapshot())
}

/*
POST /api/v1/reader/clear-cache.

Description: Empties the verse cache and re-mirrors the remote dataset in the
background. Progress is reported by GET /reader/progress.

Response:
  - 202: State (as of the request)
*/
func (handler *Handler) ClearCache(writer http.ResponseWriter, request *http.Request) {
	logger := ctxutil.GetLogger(request.Context())
	ctx := context.WithoutCancel(request.Context())

	go func() {
		if err := handler.session.ClearCache(ctx); err != nil {
			logger.Error("clear_cache_failed", slog.Any("error", err))
		}
	}()

	respond.Accepted(writer, handler.session.Snapshot())
}

// lastReadRequest defines the inbound JSON schema for position updates.
type lastReadRequest struct {
	ID   int  `json:"id"`
	Ayah *int `json:"ayah"`
}

/*
PUT /api/v1/reader/last-read.

Description: Records the reader's position.

Request:
  - body: lastReadRequest

Response:
  - 200: LastRead
  - 400: VALIDATION_ERROR: id below 1 or ayah below 1
*/
func (handler *Handler) UpdateLastRead(writer http.ResponseWriter, request *http.Request) {
	var input lastReadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Min("id", input.ID, 1)
	v.Custom("ayah", input.Ayah != nil && *input.Ayah < 1, "Must be at least 1")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.session.UpdateLastReadPosition(request.Context(), input.ID, input.Ayah))
}
