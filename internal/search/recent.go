package search

import (
	"fmt"
	"time"

	"semdex/internal/store"
)

// RecentFiles returns files modified within the last days×24h, newest
// first. days of zero means "after now" and so yields nothing barring
// clock skew.
func RecentFiles(st store.Store, days int) ([]store.FileRecord, error) {
	if days < 0 {
		return nil, fmt.Errorf("days must be >= 0, got %d", days)
	}
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	return st.FilesModifiedAfter(cutoff)
}
