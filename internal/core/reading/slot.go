// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reading

import "context"

// # Slot Storage

// SlotStore is a small durable key-value store for reader preferences.
type SlotStore interface {

	/*
		Get returns the value stored under key.

		Returns:
		  - string: The stored value
		  - bool: False when the key is absent
		  - error: Storage failures
	*/
	Get(context context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(context context.Context, key, value string) error

	// Delete removes key. Removing an absent key is not an error.
	Delete(context context.Context, key string) error
}
