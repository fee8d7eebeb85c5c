package points

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chitouru-maker/khoushou3/internal/store"
)

func TestLedger_AddRejectsNonPositive(t *testing.T) {
	var l Ledger
	assert.True(t, l.Add(5))
	assert.False(t, l.Add(0))
	assert.False(t, l.Add(-3))
	assert.Equal(t, 5, l.Total())
}

func TestLedger_AddRefusesOverflow(t *testing.T) {
	var l Ledger
	l.Restore(math.MaxInt - 3)
	assert.False(t, l.Add(5))
	assert.Equal(t, math.MaxInt-3, l.Total())
	assert.True(t, l.Add(3))
	assert.Equal(t, math.MaxInt, l.Total())
	assert.False(t, l.Add(1))
	assert.Equal(t, math.MaxInt, l.Total())
}

func TestLedger_RestoreClamps(t *testing.T) {
	var l Ledger
	l.Restore(-10)
	assert.Equal(t, 0, l.Total())
	l.Restore(42)
	assert.Equal(t, 42, l.Total())
}

func TestCodec(t *testing.T) {
	data, err := Encode(125)
	require.NoError(t, err)
	assert.Equal(t, "125", string(data))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 125, got)

	for _, blob := range []string{`"12"`, `-1`, `1.5`, `{}`} {
		_, err := Decode([]byte(blob))
		assert.ErrorIs(t, err, ErrMalformed, "blob %s", blob)
	}
}

func TestKind_DisplayName(t *testing.T) {
	for _, k := range AllKinds() {
		assert.NotEqual(t, string(k), k.DisplayName(), "kind %q has no label", k)
	}
}

func TestRecorder_JournalsAwards(t *testing.T) {
	ctx := context.Background()
	journal := store.NewMemoryStore()
	fixed := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	r := NewRecorder(journal, nil, func() time.Time { return fixed })

	a := r.Record(ctx, KindCard, 1, "u1-c1", CardPoints)
	r.Record(ctx, KindExercise, 1, "", ExercisePoints)
	r.Record(ctx, KindCard, 1, "u1-c2", CardPoints)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, fixed, a.AwardedAt)
	assert.Len(t, r.SessionAwards, 3)

	byKind, total, err := r.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, total)
	assert.Equal(t, map[Kind]int{KindCard: 10, KindExercise: 10}, byKind)

	recent, err := r.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "u1-c2", recent[0].CardID, "newest first")
}

type failingJournal struct {
	store.AwardJournal
}

func (failingJournal) AppendAward(context.Context, store.AwardEventData) error {
	return errors.New("disk full")
}

func TestRecorder_JournalFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := NewRecorder(failingJournal{}, zap.New(core), nil)

	award := r.Record(context.Background(), KindBonus, 0, "", 3)

	assert.Equal(t, 3, award.Amount)
	assert.Equal(t, 1, logs.FilterMessage("journal award").Len())
}

func TestRecorder_NilJournal(t *testing.T) {
	r := NewRecorder(nil, nil, nil)
	r.Record(context.Background(), KindQuiz, 2, "", QuizPoints)

	byKind, total, err := r.Totals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, byKind)
	assert.Zero(t, total)
}
