package unlock

import (
	"github.com/chitouru-maker/khoushou3/internal/curriculum"
	"github.com/chitouru-maker/khoushou3/internal/progress"
)

// Viewer carries who is looking at the curriculum. An admin viewer sees
// every node unlocked and skips answer gates; it never changes completion.
type Viewer struct {
	IsAdmin bool
}

// VisitReader reports sections opened during the current session.
type VisitReader interface {
	IsVisited(unitID int, cardID, sectionID string) bool
}

type noVisits struct{}

func (noVisits) IsVisited(int, string, string) bool { return false }

// Evaluator derives locked, unlocked and completed state from the
// curriculum and learner progress. It holds no state of its own and every
// query is total: unknown or untouched nodes read as empty progress.
type Evaluator struct {
	graph    *curriculum.Graph
	progress progress.Reader
	visits   VisitReader
}

// New creates an evaluator. A nil visits reader means nothing was visited.
func New(g *curriculum.Graph, p progress.Reader, visits VisitReader) *Evaluator {
	if visits == nil {
		visits = noVisits{}
	}
	return &Evaluator{graph: g, progress: p, visits: visits}
}

// eligible applies the sequential rule shared by every tier: the first
// sibling is always open; a later one opens when its predecessor is done,
// when the viewer is admin, or when the node itself is already done.
func eligible(v Viewer, index, n int, done func(i int) bool) bool {
	if index < 0 || index >= n {
		return false
	}
	if index == 0 || v.IsAdmin {
		return true
	}
	return done(index) || done(index-1)
}

// SectionCompleted reports whether a section was visited, or its card is
// already recorded as completed.
func (e *Evaluator) SectionCompleted(unitID int, card curriculum.Card, sectionID curriculum.SectionKind) bool {
	if e.progress.Unit(unitID).CompletedCards.Has(card.ID) {
		return true
	}
	return e.visits.IsVisited(unitID, card.ID, string(sectionID))
}

// CardCompleted reports whether a card is recorded as completed, or all of
// its sections were visited. A card without sections completes only when
// recorded.
func (e *Evaluator) CardCompleted(unitID int, card curriculum.Card) bool {
	if e.progress.Unit(unitID).CompletedCards.Has(card.ID) {
		return true
	}
	if len(card.Sections) == 0 {
		return false
	}
	for _, s := range card.Sections {
		if !e.visits.IsVisited(unitID, card.ID, string(s.ID)) {
			return false
		}
	}
	return true
}

// CardsDone reports whether the unit has at least as many completed cards
// as it holds. A unit without cards is vacuously done.
func (e *Evaluator) CardsDone(unit curriculum.Unit) bool {
	return e.progress.Unit(unit.ID).CompletedCards.Len() >= len(unit.Cards)
}

// UnitCompleted reports whether every card is done, the exercise is done
// and the reward is claimed.
func (e *Evaluator) UnitCompleted(unit curriculum.Unit) bool {
	p := e.progress.Unit(unit.ID)
	return p.CompletedCards.Len() >= len(unit.Cards) && p.ExerciseCompleted && p.RewardClaimed
}

// LevelCompleted reports whether a level has units and all are completed.
// Placeholder levels are never completed.
func (e *Evaluator) LevelCompleted(level curriculum.Level) bool {
	if len(level.Units) == 0 {
		return false
	}
	for _, u := range level.Units {
		if !e.UnitCompleted(u) {
			return false
		}
	}
	return true
}

// CompletedUnitsCount returns how many of the level's units are completed.
func (e *Evaluator) CompletedUnitsCount(level curriculum.Level) int {
	n := 0
	for _, u := range level.Units {
		if e.UnitCompleted(u) {
			n++
		}
	}
	return n
}

// CompletionPercent returns the share of completed units in [0, 100].
// A level without units reports 0.
func (e *Evaluator) CompletionPercent(level curriculum.Level) float64 {
	if len(level.Units) == 0 {
		return 0
	}
	return float64(e.CompletedUnitsCount(level)) / float64(len(level.Units)) * 100
}

// SectionUnlocked reports whether the section at index can be opened.
func (e *Evaluator) SectionUnlocked(v Viewer, unitID int, card curriculum.Card, index int) bool {
	return eligible(v, index, len(card.Sections), func(i int) bool {
		return e.SectionCompleted(unitID, card, card.Sections[i].ID)
	})
}

// CardUnlocked reports whether the card at index can be opened.
func (e *Evaluator) CardUnlocked(v Viewer, unit curriculum.Unit, index int) bool {
	return eligible(v, index, len(unit.Cards), func(i int) bool {
		return e.CardCompleted(unit.ID, unit.Cards[i])
	})
}

// UnitUnlocked reports whether the unit at index can be opened.
func (e *Evaluator) UnitUnlocked(v Viewer, level curriculum.Level, index int) bool {
	return eligible(v, index, len(level.Units), func(i int) bool {
		return e.UnitCompleted(level.Units[i])
	})
}

// LevelUnlocked reports whether the level at index can be opened.
func (e *Evaluator) LevelUnlocked(v Viewer, index int) bool {
	return eligible(v, index, e.graph.LevelCount(), func(i int) bool {
		l, _ := e.graph.LevelAt(i)
		return e.LevelCompleted(l)
	})
}

// ExerciseUnlocked reports whether the unit's exercise can be started.
func (e *Evaluator) ExerciseUnlocked(v Viewer, unit curriculum.Unit) bool {
	return v.IsAdmin || e.CardsDone(unit)
}

// RewardUnlocked reports whether the unit's reward can be claimed.
func (e *Evaluator) RewardUnlocked(v Viewer, unit curriculum.Unit) bool {
	if v.IsAdmin {
		return true
	}
	return e.CardsDone(unit) && e.progress.Unit(unit.ID).ExerciseCompleted
}

// RequiresAnswer reports whether the section's motivational question must
// be answered before the learner may move on.
func (e *Evaluator) RequiresAnswer(v Viewer, unitID int, card curriculum.Card, section curriculum.Section) bool {
	if section.Question == nil || v.IsAdmin {
		return false
	}
	return !e.SectionCompleted(unitID, card, section.ID)
}

// CheckAnswer reports whether choice answers the motivational question.
// A nil question accepts any answer.
func CheckAnswer(q *curriculum.MotivationalQuestion, choice int) bool {
	if q == nil {
		return true
	}
	return q.IsCorrect(choice)
}
