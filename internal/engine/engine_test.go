package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chitouru-maker/khoushou3/internal/curriculum"
	"github.com/chitouru-maker/khoushou3/internal/progress"
	"github.com/chitouru-maker/khoushou3/internal/store"
	"github.com/chitouru-maker/khoushou3/internal/streak"
	"github.com/chitouru-maker/khoushou3/internal/unlock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var today = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

// fixture builds an engine over the embedded curriculum with a fixed clock.
func fixture(t *testing.T, blobs store.BlobStore, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(streak.Fixed(today))}, opts...)
	e := New(curriculum.Default(), blobs, opts...)
	e.Load(context.Background())
	require.True(t, e.IsLoaded())
	return e
}

func TestCompleteCard_Idempotent(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())

	assert.Equal(t, OutcomeApplied, e.CompleteCard(ctx, 1, "u1-c1"))
	assert.Equal(t, OutcomeNoChange, e.CompleteCard(ctx, 1, "u1-c1"))
	assert.Equal(t, 5, e.Points())
	assert.Equal(t, 1, e.UnitProgress(1).CompletedCards.Len())
}

func TestCompleteExercise_IdempotentAndAdvancesStreak(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())

	assert.Equal(t, OutcomeApplied, e.CompleteExercise(ctx, 1))
	assert.Equal(t, OutcomeNoChange, e.CompleteExercise(ctx, 1))
	assert.Equal(t, 10, e.Points())
	assert.Equal(t, 1, e.Streak().Count)

	// A second unit the same day earns points but not another streak day.
	assert.Equal(t, OutcomeApplied, e.CompleteExercise(ctx, 2))
	assert.Equal(t, 20, e.Points())
	assert.Equal(t, 1, e.Streak().Count)
}

func TestClaimReward_UsesUnitPoints(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())

	assert.Equal(t, OutcomeApplied, e.ClaimReward(ctx, 3))
	assert.Equal(t, OutcomeNoChange, e.ClaimReward(ctx, 3))
	assert.Equal(t, 25, e.Points())
}

func TestReferentialMiss_ChangesNothing(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	e := fixture(t, blobs)

	assert.Equal(t, OutcomeUnknownUnit, e.ClaimReward(ctx, 999))
	assert.Equal(t, OutcomeUnknownUnit, e.CompleteExercise(ctx, 999))
	assert.Equal(t, OutcomeUnknownUnit, e.CompleteCard(ctx, 999, "u1-c1"))
	assert.Equal(t, OutcomeUnknownCard, e.CompleteCard(ctx, 1, "u2-c1"))

	assert.Zero(t, e.Points())
	assert.Empty(t, e.Progress())
	_, err := blobs.Load(ctx, store.KeyPoints)
	assert.ErrorIs(t, err, store.ErrNotFound, "a no-op must not persist")
}

func TestPointsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())

	ops := []func(){
		func() { e.CompleteCard(ctx, 1, "u1-c1") },
		func() { e.AddPoints(ctx, -50) },
		func() { e.CompleteCard(ctx, 1, "u1-c1") },
		func() { e.ClaimReward(ctx, 999) },
		func() { e.CompleteExercise(ctx, 1) },
		func() { e.AddPoints(ctx, 0) },
		func() { e.ClaimReward(ctx, 1) },
		func() { e.AnswerQuiz(ctx, 1, 0, 3) },
	}
	prev := e.Points()
	prevCards := e.UnitProgress(1).CompletedCards
	for i, op := range ops {
		op()
		got := e.Points()
		assert.GreaterOrEqual(t, got, prev, "op %d decreased points", i)
		cards := e.UnitProgress(1).CompletedCards
		for _, id := range prevCards.Sorted() {
			assert.True(t, cards.Has(id), "op %d dropped card %s", i, id)
		}
		prev, prevCards = got, cards
	}
	assert.Equal(t, 35, e.Points())
}

func TestAddPoints(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())

	assert.Equal(t, OutcomeInvalidAmount, e.AddPoints(ctx, -1))
	assert.Equal(t, OutcomeNoChange, e.AddPoints(ctx, 0))
	assert.Equal(t, OutcomeApplied, e.AddPoints(ctx, 7))
	assert.Equal(t, 7, e.Points())
}

func TestAwards_NeverOverflow(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	e := fixture(t, blobs)

	assert.Equal(t, OutcomeApplied, e.AddPoints(ctx, math.MaxInt-2))
	assert.Equal(t, OutcomeInvalidAmount, e.AddPoints(ctx, 3))

	// The card is recorded but its points no longer fit.
	assert.Equal(t, OutcomeApplied, e.CompleteCard(ctx, 1, "u1-c1"))
	assert.Equal(t, math.MaxInt-2, e.Points())
	assert.True(t, e.UnitProgress(1).CompletedCards.Has("u1-c1"))

	reloaded := fixture(t, blobs)
	assert.Equal(t, math.MaxInt-2, reloaded.Points())
}

func TestMutationsBeforeLoad(t *testing.T) {
	ctx := context.Background()
	e := New(curriculum.Default(), store.NewMemoryStore())

	assert.False(t, e.IsLoaded())
	assert.Equal(t, OutcomeNotLoaded, e.CompleteCard(ctx, 1, "u1-c1"))
	assert.Equal(t, OutcomeNotLoaded, e.AddPoints(ctx, 3))
	assert.Zero(t, e.Points())
}

func TestPersistence_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()

	first := fixture(t, blobs)
	first.CompleteCard(ctx, 1, "u1-c1")
	first.CompleteCard(ctx, 1, "u1-c2")
	first.CompleteExercise(ctx, 1)
	first.ClaimReward(ctx, 1)

	second := fixture(t, blobs)
	assert.Equal(t, first.Points(), second.Points())
	assert.Equal(t, 40, second.Points())
	assert.Equal(t, 1, second.Streak().Count)

	level, _ := second.Graph().LevelAt(0)
	ev := second.Evaluator()
	assert.True(t, ev.UnitCompleted(level.Units[0]))
	assert.True(t, ev.UnitUnlocked(unlock.Viewer{}, level, 1))
	assert.Equal(t, 1, ev.CompletedUnitsCount(level))
}

func TestLoad_CorruptBlobsFallBackAndLog(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	require.NoError(t, blobs.Save(ctx, store.KeyProgress, []byte(`{not json`)))
	require.NoError(t, blobs.Save(ctx, store.KeyPoints, []byte(`"many"`)))
	require.NoError(t, blobs.Save(ctx, store.KeyStreak, []byte(`{"count":-4}`)))

	core, logs := observer.New(zap.WarnLevel)
	e := fixture(t, blobs, WithLogger(zap.New(core)))

	assert.Zero(t, e.Points())
	assert.Empty(t, e.Progress())
	assert.True(t, e.Streak().IsZero())
	assert.Equal(t, 3, logs.FilterMessage("discarding malformed blob").Len())
}

func TestLoad_ReconcilesLapsedStreak(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	require.NoError(t, blobs.Save(ctx, store.KeyStreak, []byte(`{"count":5,"lastDate":"2024-03-08T12:00:00.000Z"}`)))

	e := fixture(t, blobs)
	assert.True(t, e.Streak().IsZero())

	saved, err := blobs.Load(ctx, store.KeyStreak)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"lastDate":null}`, string(saved))
}

func TestLoad_ContinuesYesterdaysStreak(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	require.NoError(t, blobs.Save(ctx, store.KeyStreak, []byte(`{"count":5,"lastDate":"2024-03-09T20:00:00.000Z"}`)))

	e := fixture(t, blobs)
	require.Equal(t, 5, e.Streak().Count)

	e.CompleteExercise(ctx, 1)
	assert.Equal(t, 6, e.Streak().Count)
	assert.True(t, streak.SameDay(e.Streak().LastDate, today, time.UTC))
}

func TestLoad_PrunesStrayCards(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	require.NoError(t, blobs.Save(ctx, store.KeyProgress,
		[]byte(`{"1":{"completedCards":["u1-c1","ghost"]},"77":{"completedCards":["future"]}}`)))

	e := fixture(t, blobs)
	assert.Equal(t, []string{"u1-c1"}, e.UnitProgress(1).CompletedCards.Sorted())
	assert.True(t, e.UnitProgress(77).CompletedCards.Has("future"), "units outside this curriculum are kept")
}

type failingStore struct {
	*store.MemoryStore
}

func (failingStore) Save(context.Context, string, []byte) error {
	return errors.New("read-only filesystem")
}

func TestWriteFailure_KeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	e := fixture(t, failingStore{store.NewMemoryStore()}, WithLogger(zap.New(core)))

	assert.Equal(t, OutcomeApplied, e.CompleteCard(ctx, 1, "u1-c1"))
	assert.Equal(t, 5, e.Points())
	assert.True(t, e.UnitProgress(1).CompletedCards.Has("u1-c1"))
	assert.Equal(t, 3, logs.FilterMessage("save blob failed").Len())
}

type failingLoad struct {
	*store.MemoryStore
}

func (failingLoad) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestLoad_ReadFailureIsNotFatal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	e := fixture(t, failingLoad{store.NewMemoryStore()}, WithLogger(zap.New(core)))

	assert.Zero(t, e.Points())
	assert.Equal(t, 3, logs.FilterMessage("load blob failed, using defaults").Len())
}

func TestStrictMode(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore(), WithStrict())

	assert.Equal(t, OutcomePrerequisiteNotMet, e.CompleteExercise(ctx, 1))
	assert.Equal(t, OutcomePrerequisiteNotMet, e.ClaimReward(ctx, 1))
	assert.Zero(t, e.Points())

	e.CompleteCard(ctx, 1, "u1-c1")
	e.CompleteCard(ctx, 1, "u1-c2")
	assert.Equal(t, OutcomePrerequisiteNotMet, e.ClaimReward(ctx, 1))
	assert.Equal(t, OutcomeApplied, e.CompleteExercise(ctx, 1))
	assert.Equal(t, OutcomeApplied, e.ClaimReward(ctx, 1))
}

func TestLenientMode_AllowsEarlyCalls(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())

	assert.Equal(t, OutcomeApplied, e.ClaimReward(ctx, 1))
	assert.Equal(t, OutcomeApplied, e.CompleteExercise(ctx, 1))
	assert.False(t, e.Evaluator().UnitCompleted(mustUnit(t, e, 1)), "cards still missing")
}

func TestVisitSection_CompletesCard(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())
	card, _, _ := e.Graph().Card(1, "u1-c1")

	for i, s := range card.Sections {
		assert.Equal(t, OutcomeApplied, e.VisitSection(ctx, 1, card.ID, s.ID))
		if i < len(card.Sections)-1 {
			assert.Zero(t, e.Points(), "card completes only after the last section")
		}
	}
	assert.Equal(t, 5, e.Points())
	assert.True(t, e.UnitProgress(1).CompletedCards.Has(card.ID))

	assert.Equal(t, OutcomeNoChange, e.VisitSection(ctx, 1, card.ID, card.Sections[0].ID))
	assert.Equal(t, OutcomeUnknownSection, e.VisitSection(ctx, 1, card.ID, curriculum.SectionTactile))
	assert.Equal(t, OutcomeUnknownCard, e.VisitSection(ctx, 1, "nope", curriculum.SectionSharii))
}

func TestAnswerQuestion(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())

	ok, outcome := e.AnswerQuestion(ctx, 1, "u1-c1", curriculum.SectionTarbawi, 1)
	assert.False(t, ok)
	assert.Equal(t, OutcomeNoChange, outcome)

	ok, outcome = e.AnswerQuestion(ctx, 1, "u1-c1", curriculum.SectionTarbawi, 0)
	assert.True(t, ok)
	assert.Equal(t, OutcomeApplied, outcome)

	card, _, _ := e.Graph().Card(1, "u1-c1")
	assert.True(t, e.Evaluator().SectionCompleted(1, card, curriculum.SectionTarbawi))

	_, outcome = e.AnswerQuestion(ctx, 1, "u1-c1", curriculum.SectionSharii, 0)
	assert.Equal(t, OutcomeUnknownQuestion, outcome)
}

func TestAnswerQuiz(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())

	correct, outcome := e.AnswerQuiz(ctx, 1, 0, 0)
	assert.True(t, correct)
	assert.Equal(t, OutcomeApplied, outcome)

	correct, outcome = e.AnswerQuiz(ctx, 1, 1, 2)
	assert.False(t, correct)
	assert.Equal(t, OutcomeNoChange, outcome)

	_, outcome = e.AnswerQuiz(ctx, 1, 9, 0)
	assert.Equal(t, OutcomeUnknownQuestion, outcome)

	e.AnswerQuiz(ctx, 1, 0, 0)
	assert.Equal(t, 4, e.Points(), "each correct answer scores")
}

func TestJournal_RecordsEveryAward(t *testing.T) {
	ctx := context.Background()
	journal := store.NewMemoryStore()
	e := fixture(t, store.NewMemoryStore(), WithJournal(journal))

	e.CompleteCard(ctx, 1, "u1-c1")
	e.CompleteExercise(ctx, 1)
	e.ClaimReward(ctx, 1)
	e.AddPoints(ctx, 3)

	byKind, total, err := e.Awards().Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, e.Points(), total)
	assert.Len(t, byKind, 4)
}

func TestConcurrentMutations_NoLostUpdates(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())
	unit := mustUnit(t, e, 1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.AddPoints(ctx, 1)
			e.CompleteCard(ctx, 1, "u1-c1")
			_ = e.Evaluator().UnitCompleted(unit)
		}()
	}
	wg.Wait()

	assert.Equal(t, 55, e.Points())
}

func TestEvaluator_IsSnapshot(t *testing.T) {
	ctx := context.Background()
	e := fixture(t, store.NewMemoryStore())

	ev := e.Evaluator()
	e.CompleteCard(ctx, 1, "u1-c1")
	card, _, _ := e.Graph().Card(1, "u1-c1")
	assert.False(t, ev.CardCompleted(1, card))
	assert.True(t, e.Evaluator().CardCompleted(1, card))
}

func TestProgressBlobShape(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	e := fixture(t, blobs)
	e.CompleteCard(ctx, 2, "u2-c2")

	data, err := blobs.Load(ctx, store.KeyProgress)
	require.NoError(t, err)
	up, err := progress.Decode(data)
	require.NoError(t, err)
	assert.True(t, up.Unit(2).CompletedCards.Has("u2-c2"))

	pts, err := blobs.Load(ctx, store.KeyPoints)
	require.NoError(t, err)
	assert.Equal(t, "5", string(pts))
}

func mustUnit(t *testing.T, e *Engine, id int) curriculum.Unit {
	t.Helper()
	u, ok := e.Graph().Unit(id)
	require.True(t, ok)
	return u
}
