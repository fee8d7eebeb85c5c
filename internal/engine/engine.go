// Package engine is the progression and gamification core. It owns the
// learner's progress, points and streak behind a single lock, derives
// unlock state through the unlock package and persists every change to a
// blob store.
package engine

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/chitouru-maker/khoushou3/internal/curriculum"
	"github.com/chitouru-maker/khoushou3/internal/points"
	"github.com/chitouru-maker/khoushou3/internal/progress"
	"github.com/chitouru-maker/khoushou3/internal/store"
	"github.com/chitouru-maker/khoushou3/internal/streak"
	"github.com/chitouru-maker/khoushou3/internal/unlock"
)

// Engine serializes every mutation: one user action can touch progress,
// points and streak together, so all three share one lock.
type Engine struct {
	graph   *curriculum.Graph
	blobs   store.BlobStore
	journal store.AwardJournal
	logger  *zap.Logger
	clock   streak.Clock
	strict  bool

	mu       sync.Mutex
	loaded   bool
	repo     *progress.Repository
	ledger   points.Ledger
	streaks  *streak.Accountant
	visits   *progress.VisitLog
	recorder *points.Recorder
}

// New creates an engine over a curriculum and a blob store. Call Load
// before using it.
func New(g *curriculum.Graph, blobs store.BlobStore, opts ...Option) *Engine {
	e := &Engine{
		graph:  g,
		blobs:  blobs,
		logger: zap.NewNop(),
		clock:  streak.SystemClock{},
		repo:   progress.NewRepository(),
		visits: progress.NewVisitLog(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.streaks = streak.NewAccountant(e.clock)
	e.recorder = points.NewRecorder(e.journal, e.logger, e.clock.Now)
	return e
}

// Graph returns the curriculum the engine evaluates against.
func (e *Engine) Graph() *curriculum.Graph {
	return e.graph
}

// Load reads the persisted records, reconciles them and marks the engine
// loaded. It never fails: missing or corrupt records fall back to defaults.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if data, ok := e.loadBlob(ctx, store.KeyProgress); ok {
		up, err := progress.Decode(data)
		if err != nil {
			e.discard(store.KeyProgress, err)
		} else {
			e.repo.Restore(up)
		}
	}
	if dropped := e.repo.Prune(e.belongs); dropped > 0 {
		e.logger.Info("dropped unknown cards from progress", zap.Int("count", dropped))
	}

	if data, ok := e.loadBlob(ctx, store.KeyPoints); ok {
		total, err := points.Decode(data)
		if err != nil {
			e.discard(store.KeyPoints, err)
		} else {
			e.ledger.Restore(total)
		}
	}

	if data, ok := e.loadBlob(ctx, store.KeyStreak); ok {
		s, err := streak.Decode(data, e.clock.Now().Location())
		if err != nil {
			e.discard(store.KeyStreak, err)
		} else {
			e.streaks.Restore(s)
		}
	}
	if e.streaks.Reconcile() {
		e.logger.Info("streak lapsed, reset")
		e.saveStreak(ctx)
	}

	e.loaded = true
	e.logger.Debug("state loaded",
		zap.Int("points", e.ledger.Total()),
		zap.Int("streak", e.streaks.Current().Count))
}

// belongs keeps a stored card when its unit is unknown to this curriculum
// (so progress for content not shipped yet survives) or the card is in it.
func (e *Engine) belongs(unitID int, cardID string) bool {
	if _, ok := e.graph.Unit(unitID); !ok {
		return true
	}
	return e.graph.HasCard(unitID, cardID)
}

func (e *Engine) loadBlob(ctx context.Context, key string) ([]byte, bool) {
	data, err := e.blobs.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		e.logger.Warn("load blob failed, using defaults", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

func (e *Engine) discard(key string, err error) {
	e.logger.Warn("discarding malformed blob", zap.String("key", key), zap.Error(err))
}

// IsLoaded reports whether Load has finished.
func (e *Engine) IsLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Points returns the point total.
func (e *Engine) Points() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Total()
}

// Streak returns the streak record.
func (e *Engine) Streak() streak.Streak {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streaks.Current()
}

// UnitProgress returns a copy of the unit's progress.
func (e *Engine) UnitProgress(unitID int) progress.UnitProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo.Unit(unitID)
}

// Progress returns a copy of all progress.
func (e *Engine) Progress() progress.UserProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo.Snapshot()
}

// Evaluator returns an evaluator over a snapshot of the current state.
// It does not observe later mutations.
func (e *Engine) Evaluator() *unlock.Evaluator {
	e.mu.Lock()
	defer e.mu.Unlock()
	return unlock.New(e.graph, e.repo.Snapshot(), e.visits.Clone())
}

// Awards returns the journaling recorder for reporting.
func (e *Engine) Awards() *points.Recorder {
	return e.recorder
}

// persist writes all three records. Failures are logged; in-memory state
// stays authoritative.
func (e *Engine) persist(ctx context.Context) {
	e.saveProgress(ctx)
	e.savePoints(ctx)
	e.saveStreak(ctx)
}

func (e *Engine) saveProgress(ctx context.Context) {
	data, err := progress.Encode(e.repo.Snapshot())
	e.save(ctx, store.KeyProgress, data, err)
}

func (e *Engine) savePoints(ctx context.Context) {
	data, err := points.Encode(e.ledger.Total())
	e.save(ctx, store.KeyPoints, data, err)
}

func (e *Engine) saveStreak(ctx context.Context) {
	data, err := streak.Encode(e.streaks.Current())
	e.save(ctx, store.KeyStreak, data, err)
}

func (e *Engine) save(ctx context.Context, key string, data []byte, encErr error) {
	if encErr != nil {
		e.logger.Error("encode blob", zap.String("key", key), zap.Error(encErr))
		return
	}
	if err := e.blobs.Save(ctx, key, data); err != nil {
		e.logger.Warn("save blob failed", zap.String("key", key), zap.Error(err))
	}
}
