// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reading

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dendyaziz/quran-reader/internal/platform/constants"
	"github.com/dendyaziz/quran-reader/pkg/convert"
	"github.com/dendyaziz/quran-reader/pkg/pointer"
)

// LastRead is the reader's saved position.
type LastRead struct {
	ID   int  `json:"id"`             // Global ayah id.
	Ayah *int `json:"ayah,omitempty"` // Number within the surah, when known.
}

// DefaultLastRead is the position of a reader who has never read.
func DefaultLastRead() LastRead {
	return LastRead{ID: 1, Ayah: pointer.To(1)}
}

// # Last Read Repository

// LastReadRepository persists [LastRead] in a [SlotStore].
//
// Older clients stored a bare ayah id under a separate slot. [LastReadRepository.Load]
// converts that value to the structured form the first time it is read.
type LastReadRepository struct {
	slots  SlotStore
	logger *slog.Logger
}

// NewLastReadRepository constructs a repository over slots.
func NewLastReadRepository(slots SlotStore, logger *slog.Logger) *LastReadRepository {
	return &LastReadRepository{slots: slots, logger: logger}
}

/*
Load returns the saved position.

Description: A structured slot wins. An unreadable structured slot yields the
default with a warning. Otherwise a legacy slot is converted, written back in
the structured form and removed; failures of that write-back are only logged.

Returns:
  - LastRead: Saved, migrated or default position
  - error: Slot store read failures
*/
func (repository *LastReadRepository) Load(ctx context.Context) (LastRead, error) {
	raw, found, err := repository.slots.Get(ctx, constants.SlotLastRead)
	if err != nil {
		return DefaultLastRead(), fmt.Errorf("reading: load last read: %w", err)
	}

	if found {
		var lastRead LastRead
		if err := json.Unmarshal([]byte(raw), &lastRead); err != nil || lastRead.ID < 1 {
			repository.logger.Warn("last_read_unreadable",
				slog.String("value", raw),
				slog.Any("error", err),
			)
			return DefaultLastRead(), nil
		}
		return lastRead, nil
	}

	legacy, found, err := repository.slots.Get(ctx, constants.SlotLastReadLegacy)
	if err != nil {
		return DefaultLastRead(), fmt.Errorf("reading: load legacy last read: %w", err)
	}
	if !found {
		return DefaultLastRead(), nil
	}

	lastRead := LastRead{ID: parseLegacyID(legacy)}

	if err := repository.Save(ctx, lastRead); err != nil {
		repository.logger.Warn("last_read_migration_failed", slog.Any("error", err))
		return lastRead, nil
	}
	if err := repository.slots.Delete(ctx, constants.SlotLastReadLegacy); err != nil {
		repository.logger.Warn("last_read_migration_failed", slog.Any("error", err))
		return lastRead, nil
	}

	repository.logger.Info("last_read_migrated", slog.Int("id", lastRead.ID))

	return lastRead, nil
}

// Save writes lastRead to the structured slot.
func (repository *LastReadRepository) Save(ctx context.Context, lastRead LastRead) error {
	data, err := json.Marshal(lastRead)
	if err != nil {
		return fmt.Errorf("reading: encode last read: %w", err)
	}

	if err := repository.slots.Set(ctx, constants.SlotLastRead, string(data)); err != nil {
		return fmt.Errorf("reading: save last read: %w", err)
	}

	return nil
}

// parseLegacyID reads the leading base-10 integer of s, ignoring whatever
// follows it. Values without one, and ids below 1, map to 1.
func parseLegacyID(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	return max(convert.ToIntD(s[:end], 1), 1)
}
