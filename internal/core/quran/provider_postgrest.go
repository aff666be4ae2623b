// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// defaultPostgRESTTimeout bounds a single range request.
	defaultPostgRESTTimeout = 30 * time.Second
	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// PostgRESTFetcher reads the remote table through a PostgREST endpoint such
// as the Supabase REST API.
type PostgRESTFetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewPostgRESTFetcher constructs a fetcher for the project at baseURL.
// A nil client gets a default one with a request timeout.
func NewPostgRESTFetcher(baseURL, apiKey string, client *http.Client) *PostgRESTFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultPostgRESTTimeout}
	}

	return &PostgRESTFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

/*
FetchRange implements [RangeFetcher] with a Range header request.

Description: Issues GET /rest/v1/{table}?select=*&order={key}.asc with
"Range: from-to". A 416 answer means the range starts past the last row.
*/
func (fetcher *PostgRESTFetcher) FetchRange(ctx context.Context, query RangeQuery) (*RangeResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("select", "*")
	params.Set("order", query.OrderKey+".asc")

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", fetcher.baseURL, url.PathEscape(query.Table), params.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Op: "build request", Err: err}
	}

	request.Header.Set("apikey", fetcher.apiKey)
	request.Header.Set("Authorization", "Bearer "+fetcher.apiKey)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Range-Unit", "items")
	request.Header.Set("Range", fmt.Sprintf("%d-%d", query.From, query.To))
	request.Header.Set("Prefer", "count=exact")

	response, err := fetcher.client.Do(request)
	if err != nil {
		return nil, &ProviderError{Op: "fetch range", Err: err}
	}
	defer response.Body.Close()

	total := parseContentRangeTotal(response.Header.Get("Content-Range"))

	switch response.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
		var rows []RemoteAyah
		if err := json.NewDecoder(response.Body).Decode(&rows); err != nil {
			return nil, &ProviderError{Op: "decode range", Err: err}
		}
		if rows == nil {
			rows = []RemoteAyah{}
		}
		return &RangeResult{Rows: rows, Total: total}, nil

	case http.StatusRequestedRangeNotSatisfiable:
		return &RangeResult{Rows: []RemoteAyah{}, Total: total}, nil

	default:
		return nil, &ProviderError{
			Op:  fmt.Sprintf("fetch range %d-%d", query.From, query.To),
			Err: fmt.Errorf("status %d: %s", response.StatusCode, errorMessage(response.Body)),
		}
	}
}

// parseContentRangeTotal extracts N from "a-b/N" or "*/N".
func parseContentRangeTotal(header string) int {
	_, totalPart, found := strings.Cut(header, "/")
	if !found {
		return UnknownTotal
	}

	total, err := strconv.Atoi(strings.TrimSpace(totalPart))
	if err != nil || total < 0 {
		return UnknownTotal
	}

	return total
}

// errorMessage returns the PostgREST "message" field, or the raw body.
func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		return payload.Message
	}

	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}

	return "empty response"
}
