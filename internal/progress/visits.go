package progress

// cardKey addresses one card across units.
type cardKey struct {
	unit int
	card string
}

// VisitLog records which sections were opened during the current session.
// It is never persisted.
type VisitLog struct {
	cards map[cardKey]Set
}

// NewVisitLog creates an empty visit log.
func NewVisitLog() *VisitLog {
	return &VisitLog{cards: make(map[cardKey]Set)}
}

// Visit marks a section as visited and reports whether it was new.
func (v *VisitLog) Visit(unitID int, cardID, sectionID string) bool {
	k := cardKey{unitID, cardID}
	s := v.cards[k]
	if !s.Add(sectionID) {
		return false
	}
	v.cards[k] = s
	return true
}

// Visited returns the sections visited on a card.
func (v *VisitLog) Visited(unitID int, cardID string) Set {
	return v.cards[cardKey{unitID, cardID}].Clone()
}

// IsVisited reports whether a single section was visited.
func (v *VisitLog) IsVisited(unitID int, cardID, sectionID string) bool {
	return v.cards[cardKey{unitID, cardID}].Has(sectionID)
}

// Reset forgets all visits.
func (v *VisitLog) Reset() {
	clear(v.cards)
}

// Clone returns an independent copy.
func (v *VisitLog) Clone() *VisitLog {
	out := NewVisitLog()
	for k, s := range v.cards {
		out.cards[k] = s.Clone()
	}
	return out
}
