// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dendyaziz/quran-reader/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
PositiveInt retrieves a named URL parameter that must be an integer >= 1.

Returns:
  - int: The parsed value
  - error: VALIDATION_ERROR naming the parameter
*/
func PositiveInt(request *http.Request, name string) (int, error) {
	v := &validate.Validator{}
	n := v.Int(name, chi.URLParam(request, name))
	if !v.HasErrors() {
		v.Min(name, n, 1)
	}

	if err := v.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
