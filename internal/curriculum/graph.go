package curriculum

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnitNotFound is returned when a unit ID is not part of the graph.
var ErrUnitNotFound = errors.New("unit not found")

// unitRef locates a unit inside the level slice.
type unitRef struct {
	level int
	index int
}

// Graph is the read-only content forest with precomputed indices.
// Sibling order is the order the levels, units, cards and sections
// were supplied in and is never changed.
type Graph struct {
	app    AppInfo
	levels []Level
	units  map[int]unitRef
	quiz   map[int][]QuizQuestion
}

// New validates the levels and builds the graph indices.
func New(doc Document) (*Graph, error) {
	if err := validateLevels(doc.Levels); err != nil {
		return nil, err
	}

	g := &Graph{
		app:    doc.App,
		levels: doc.Levels,
		units:  make(map[int]unitRef),
		quiz:   make(map[int][]QuizQuestion),
	}

	for li := range g.levels {
		for ui := range g.levels[li].Units {
			u := &g.levels[li].Units[ui]
			g.units[u.ID] = unitRef{level: li, index: ui}

			// The unit quiz is every card's quiz, in card order.
			var qs []QuizQuestion
			for _, c := range u.Cards {
				qs = append(qs, c.Quiz...)
			}
			g.quiz[u.ID] = qs
		}
	}

	return g, nil
}

// MustNew is New for static content; it panics on invalid input.
func MustNew(doc Document) *Graph {
	g, err := New(doc)
	if err != nil {
		panic(err)
	}
	return g
}

// App returns the curriculum metadata.
func (g *Graph) App() AppInfo {
	return g.app
}

// Levels returns all levels in order.
func (g *Graph) Levels() []Level {
	return slices.Clone(g.levels)
}

// LevelCount returns the number of levels.
func (g *Graph) LevelCount() int {
	return len(g.levels)
}

// LevelAt returns the level at the given sibling index.
func (g *Graph) LevelAt(index int) (Level, bool) {
	if index < 0 || index >= len(g.levels) {
		return Level{}, false
	}
	return g.levels[index], true
}

// LevelByID returns the level with the given ID and its sibling index.
func (g *Graph) LevelByID(id int) (Level, int, bool) {
	for i, l := range g.levels {
		if l.ID == id {
			return l, i, true
		}
	}
	return Level{}, -1, false
}

// Unit returns a unit by ID.
func (g *Graph) Unit(id int) (Unit, bool) {
	ref, ok := g.units[id]
	if !ok {
		return Unit{}, false
	}
	return g.levels[ref.level].Units[ref.index], true
}

// GetUnit returns a unit by ID, or ErrUnitNotFound.
func (g *Graph) GetUnit(id int) (Unit, error) {
	u, ok := g.Unit(id)
	if !ok {
		return Unit{}, fmt.Errorf("%w: %d", ErrUnitNotFound, id)
	}
	return u, nil
}

// LevelOfUnit returns the level containing the unit and the unit's
// sibling index inside it.
func (g *Graph) LevelOfUnit(unitID int) (Level, int, bool) {
	ref, ok := g.units[unitID]
	if !ok {
		return Level{}, -1, false
	}
	return g.levels[ref.level], ref.index, true
}

// Card returns a card of a unit and its sibling index.
func (g *Graph) Card(unitID int, cardID string) (Card, int, bool) {
	u, ok := g.Unit(unitID)
	if !ok {
		return Card{}, -1, false
	}
	for i, c := range u.Cards {
		if c.ID == cardID {
			return c, i, true
		}
	}
	return Card{}, -1, false
}

// HasCard reports whether cardID belongs to the unit.
func (g *Graph) HasCard(unitID int, cardID string) bool {
	_, _, ok := g.Card(unitID, cardID)
	return ok
}

// UnitQuiz returns the concatenated quiz of a unit's cards.
func (g *Graph) UnitQuiz(unitID int) []QuizQuestion {
	return slices.Clone(g.quiz[unitID])
}

// SectionIndex returns the sibling index of a section in a card, or -1.
func SectionIndex(c Card, id SectionKind) int {
	for i, s := range c.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
