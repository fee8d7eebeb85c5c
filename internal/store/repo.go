package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load when no blob is stored under the key.
var ErrNotFound = errors.New("blob not found")

// Keys of the persisted learner records.
const (
	KeyProgress = "userProgress"
	KeyPoints   = "userPoints"
	KeyStreak   = "userStreak"
	KeyAdmin    = "isAdmin"
)

// AllKeys returns every key the application writes.
func AllKeys() []string {
	return []string{KeyProgress, KeyPoints, KeyStreak, KeyAdmin}
}

// BlobStore is a key/value store of opaque blobs. Save replaces the whole
// value.
type BlobStore interface {
	// Load returns the blob stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// QueryOpts configures journal queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
}

// AwardEventData captures a single points award.
type AwardEventData struct {
	ID        string
	Kind      string
	UnitID    int
	CardID    string
	Amount    int
	Timestamp time.Time
}

// AwardEventRecord is a journaled award with its global sequence number.
type AwardEventRecord struct {
	AwardEventData
	Sequence int64
}

// AwardJournal provides append and query access to award events.
type AwardJournal interface {
	// AppendAward records an award.
	AppendAward(ctx context.Context, data AwardEventData) error

	// AwardTotals returns points per kind and the overall sum.
	AwardTotals(ctx context.Context) (map[string]int, int, error)

	// QueryAwards returns awards newest first.
	QueryAwards(ctx context.Context, opts QueryOpts) ([]AwardEventRecord, error)

	// ClearAwards removes every journaled award.
	ClearAwards(ctx context.Context) error
}

// Backend is a store that holds both the learner blobs and the journal.
type Backend interface {
	BlobStore
	AwardJournal
	Close() error
}

// filter applies opts to records sorted newest first.
func filter(records []AwardEventRecord, opts QueryOpts) []AwardEventRecord {
	out := make([]AwardEventRecord, 0, len(records))
	for _, r := range records {
		if opts.After > 0 && r.Sequence <= opts.After {
			continue
		}
		if !opts.From.IsZero() && r.Timestamp.Before(opts.From) {
			continue
		}
		out = append(out, r)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out
}
