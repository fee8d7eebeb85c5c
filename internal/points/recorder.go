package points

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chitouru-maker/khoushou3/internal/store"
)

// Award represents a single credit to the ledger.
type Award struct {
	ID        string
	Kind      Kind
	UnitID    int    // 0 for bonus awards
	CardID    string // empty unless Kind is KindCard
	Amount    int
	AwardedAt time.Time
}

// Recorder journals awards for reporting. Journal writes are best-effort:
// failures are logged and never affect the ledger.
type Recorder struct {
	journal store.AwardJournal
	logger  *zap.Logger
	now     func() time.Time

	// SessionAwards accumulates awards recorded since the process started.
	SessionAwards []Award
}

// NewRecorder creates a Recorder. A nil journal records nothing durable;
// a nil now uses time.Now.
func NewRecorder(journal store.AwardJournal, logger *zap.Logger, now func() time.Time) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Recorder{journal: journal, logger: logger, now: now}
}

// Record builds an award and appends it to the journal.
func (r *Recorder) Record(ctx context.Context, kind Kind, unitID int, cardID string, amount int) Award {
	award := Award{
		ID:        uuid.NewString(),
		Kind:      kind,
		UnitID:    unitID,
		CardID:    cardID,
		Amount:    amount,
		AwardedAt: r.now(),
	}
	r.persist(ctx, award)
	r.SessionAwards = append(r.SessionAwards, award)
	return award
}

// Totals returns points earned per kind and the overall journaled sum.
func (r *Recorder) Totals(ctx context.Context) (map[Kind]int, int, error) {
	if r.journal == nil {
		return map[Kind]int{}, 0, nil
	}
	byKind, total, err := r.journal.AwardTotals(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("award totals: %w", err)
	}
	out := make(map[Kind]int, len(byKind))
	for k, v := range byKind {
		out[Kind(k)] = v
	}
	return out, total, nil
}

// Recent returns the latest journaled awards, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Award, error) {
	if r.journal == nil {
		return nil, nil
	}
	records, err := r.journal.QueryAwards(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("recent awards: %w", err)
	}
	awards := make([]Award, len(records))
	for i, rec := range records {
		awards[i] = Award{
			ID:        rec.ID,
			Kind:      Kind(rec.Kind),
			UnitID:    rec.UnitID,
			CardID:    rec.CardID,
			Amount:    rec.Amount,
			AwardedAt: rec.Timestamp,
		}
	}
	return awards, nil
}

func (r *Recorder) persist(ctx context.Context, award Award) {
	if r.journal == nil {
		return
	}
	err := r.journal.AppendAward(ctx, store.AwardEventData{
		ID:        award.ID,
		Kind:      string(award.Kind),
		UnitID:    award.UnitID,
		CardID:    award.CardID,
		Amount:    award.Amount,
		Timestamp: award.AwardedAt,
	})
	if err != nil {
		r.logger.Warn("journal award",
			zap.String("kind", string(award.Kind)),
			zap.Int("amount", award.Amount),
			zap.Error(err))
	}
}
