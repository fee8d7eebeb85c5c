package engine

import (
	"go.uber.org/zap"

	"github.com/chitouru-maker/khoushou3/internal/store"
	"github.com/chitouru-maker/khoushou3/internal/streak"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the clock used for streak days.
func WithClock(c streak.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithJournal records every award to j for reporting.
func WithJournal(j store.AwardJournal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithStrict makes CompleteExercise require every card done and
// ClaimReward require the exercise done.
func WithStrict() Option {
	return func(e *Engine) {
		e.strict = true
	}
}
