package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/chitouru-maker/khoushou3/internal/app"
	"github.com/chitouru-maker/khoushou3/internal/curriculum"
	"github.com/chitouru-maker/khoushou3/internal/engine"
	"github.com/chitouru-maker/khoushou3/internal/unlock"
)

var errLocked = errors.New("locked")

func parseID(kind, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

// openUnit resolves a unit and refuses it when the viewer cannot open it
// yet: its level must be unlocked and the unit itself reachable.
func openUnit(a *app.App, v unlock.Viewer, unitID int) (curriculum.Unit, error) {
	g := a.Engine.Graph()
	unit, err := g.GetUnit(unitID)
	if err != nil {
		return curriculum.Unit{}, err
	}
	level, index, _ := g.LevelOfUnit(unitID)
	_, levelIndex, _ := g.LevelByID(level.ID)

	ev := a.Engine.Evaluator()
	if !ev.LevelUnlocked(v, levelIndex) {
		return curriculum.Unit{}, fmt.Errorf("level %d is %w", level.ID, errLocked)
	}
	if !ev.UnitUnlocked(v, level, index) {
		return curriculum.Unit{}, fmt.Errorf("unit %d is %w: finish the previous unit first", unitID, errLocked)
	}
	return unit, nil
}

// openCard resolves a card inside an open unit and refuses it while the
// previous card is unfinished.
func openCard(a *app.App, v unlock.Viewer, unitID int, cardID string) (curriculum.Card, error) {
	unit, err := openUnit(a, v, unitID)
	if err != nil {
		return curriculum.Card{}, err
	}
	card, index, ok := a.Engine.Graph().Card(unitID, cardID)
	if !ok {
		return curriculum.Card{}, fmt.Errorf("unit %d has no card %q", unitID, cardID)
	}
	if !a.Engine.Evaluator().CardUnlocked(v, unit, index) {
		return curriculum.Card{}, fmt.Errorf("card %q is %w: finish the previous card first", cardID, errLocked)
	}
	return card, nil
}

// outcomeErr turns referential misses and refused preconditions into
// command errors. Applied and NoChange are both successes.
func outcomeErr(o engine.Outcome) error {
	switch o {
	case engine.OutcomeApplied, engine.OutcomeNoChange:
		return nil
	default:
		return errors.New(o.String())
	}
}
