package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/chitouru-maker/khoushou3/internal/curriculum"
	"github.com/chitouru-maker/khoushou3/internal/points"
	"github.com/chitouru-maker/khoushou3/internal/unlock"
)

// CompleteCard records a finished card and awards card points once.
func (e *Engine) CompleteCard(ctx context.Context, unitID int, cardID string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return OutcomeNotLoaded
	}
	if _, ok := e.graph.Unit(unitID); !ok {
		return e.miss(OutcomeUnknownUnit, unitID)
	}
	if !e.graph.HasCard(unitID, cardID) {
		return e.miss(OutcomeUnknownCard, unitID)
	}
	return e.completeCardLocked(ctx, unitID, cardID)
}

func (e *Engine) completeCardLocked(ctx context.Context, unitID int, cardID string) Outcome {
	if !e.repo.MarkCard(unitID, cardID) {
		return OutcomeNoChange
	}
	e.award(ctx, points.KindCard, unitID, cardID, points.CardPoints)
	e.persist(ctx)
	e.logger.Info("card completed", zap.Int("unit", unitID), zap.String("card", cardID))
	return OutcomeApplied
}

// CompleteExercise records the unit's exercise, awards exercise points
// and advances the daily streak, once per unit.
func (e *Engine) CompleteExercise(ctx context.Context, unitID int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return OutcomeNotLoaded
	}
	unit, ok := e.graph.Unit(unitID)
	if !ok {
		return e.miss(OutcomeUnknownUnit, unitID)
	}
	if e.strict && !e.evaluator().CardsDone(unit) {
		return OutcomePrerequisiteNotMet
	}
	if !e.repo.MarkExercise(unitID) {
		return OutcomeNoChange
	}

	e.award(ctx, points.KindExercise, unitID, "", points.ExercisePoints)
	if e.streaks.Advance() {
		e.logger.Info("streak advanced", zap.Int("count", e.streaks.Current().Count))
	}
	e.persist(ctx)
	e.logger.Info("exercise completed", zap.Int("unit", unitID))
	return OutcomeApplied
}

// ClaimReward records the unit's reward and awards its points once.
func (e *Engine) ClaimReward(ctx context.Context, unitID int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return OutcomeNotLoaded
	}
	unit, ok := e.graph.Unit(unitID)
	if !ok {
		return e.miss(OutcomeUnknownUnit, unitID)
	}
	if e.strict && !e.evaluator().RewardUnlocked(unlock.Viewer{}, unit) {
		return OutcomePrerequisiteNotMet
	}
	if !e.repo.MarkReward(unitID) {
		return OutcomeNoChange
	}

	e.award(ctx, points.KindReward, unitID, "", unit.RewardPoints())
	e.persist(ctx)
	e.logger.Info("reward claimed", zap.Int("unit", unitID), zap.Int("points", unit.RewardPoints()))
	return OutcomeApplied
}

// AddPoints credits a bonus. Zero is a no-op; negative amounts and
// amounts that would overflow the total are refused.
func (e *Engine) AddPoints(ctx context.Context, amount int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return OutcomeNotLoaded
	}
	switch {
	case amount == 0:
		return OutcomeNoChange
	case !e.ledger.Fits(amount):
		return OutcomeInvalidAmount
	}
	e.award(ctx, points.KindBonus, 0, "", amount)
	e.persist(ctx)
	return OutcomeApplied
}

// VisitSection records that a section was opened this session. When the
// last unvisited section of a card is opened the card is completed.
// Visits themselves are not persisted.
func (e *Engine) VisitSection(ctx context.Context, unitID int, cardID string, sectionID curriculum.SectionKind) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return OutcomeNotLoaded
	}
	card, outcome := e.lookupSection(unitID, cardID, sectionID)
	if outcome != OutcomeApplied {
		return outcome
	}
	return e.visitLocked(ctx, unitID, card, sectionID)
}

func (e *Engine) visitLocked(ctx context.Context, unitID int, card curriculum.Card, sectionID curriculum.SectionKind) Outcome {
	if e.repo.Unit(unitID).CompletedCards.Has(card.ID) {
		return OutcomeNoChange
	}
	if !e.visits.Visit(unitID, card.ID, string(sectionID)) {
		return OutcomeNoChange
	}
	if e.evaluator().CardCompleted(unitID, card) {
		e.completeCardLocked(ctx, unitID, card.ID)
	}
	return OutcomeApplied
}

// AnswerQuestion checks an answer to a section's motivational question.
// A correct answer counts as visiting the section.
func (e *Engine) AnswerQuestion(ctx context.Context, unitID int, cardID string, sectionID curriculum.SectionKind, choice int) (bool, Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return false, OutcomeNotLoaded
	}
	card, outcome := e.lookupSection(unitID, cardID, sectionID)
	if outcome != OutcomeApplied {
		return false, outcome
	}
	section := card.Sections[curriculum.SectionIndex(card, sectionID)]
	if section.Question == nil {
		return false, OutcomeUnknownQuestion
	}
	if !unlock.CheckAnswer(section.Question, choice) {
		return false, OutcomeNoChange
	}
	return true, e.visitLocked(ctx, unitID, card, sectionID)
}

// AnswerQuiz scores one question of the unit quiz. Each correct answer
// earns quiz points; answers are not deduplicated.
func (e *Engine) AnswerQuiz(ctx context.Context, unitID, questionIndex, choice int) (bool, Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return false, OutcomeNotLoaded
	}
	if _, ok := e.graph.Unit(unitID); !ok {
		return false, e.miss(OutcomeUnknownUnit, unitID)
	}
	quiz := e.graph.UnitQuiz(unitID)
	if questionIndex < 0 || questionIndex >= len(quiz) {
		return false, OutcomeUnknownQuestion
	}
	if !quiz[questionIndex].IsCorrect(choice) {
		return false, OutcomeNoChange
	}
	e.award(ctx, points.KindQuiz, unitID, "", points.QuizPoints)
	e.persist(ctx)
	return true, OutcomeApplied
}

func (e *Engine) lookupSection(unitID int, cardID string, sectionID curriculum.SectionKind) (curriculum.Card, Outcome) {
	if _, ok := e.graph.Unit(unitID); !ok {
		return curriculum.Card{}, e.miss(OutcomeUnknownUnit, unitID)
	}
	card, _, ok := e.graph.Card(unitID, cardID)
	if !ok {
		return curriculum.Card{}, e.miss(OutcomeUnknownCard, unitID)
	}
	if curriculum.SectionIndex(card, sectionID) < 0 {
		return curriculum.Card{}, OutcomeUnknownSection
	}
	return card, OutcomeApplied
}

// award credits the ledger and journals the award. Callers hold the lock.
func (e *Engine) award(ctx context.Context, kind points.Kind, unitID int, cardID string, amount int) {
	if !e.ledger.Add(amount) {
		return
	}
	e.recorder.Record(ctx, kind, unitID, cardID, amount)
}

// evaluator views live state. Callers hold the lock.
func (e *Engine) evaluator() *unlock.Evaluator {
	return unlock.New(e.graph, e.repo, e.visits)
}

func (e *Engine) miss(o Outcome, unitID int) Outcome {
	e.logger.Debug("ignored mutation", zap.String("outcome", o.String()), zap.Int("unit", unitID))
	return o
}
