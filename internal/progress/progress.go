package progress

// UnitProgress is the learner's state within one unit.
type UnitProgress struct {
	CompletedCards    Set
	ExerciseCompleted bool
	RewardClaimed     bool
}

// Clone returns a deep copy.
func (p UnitProgress) Clone() UnitProgress {
	return UnitProgress{
		CompletedCards:    p.CompletedCards.Clone(),
		ExerciseCompleted: p.ExerciseCompleted,
		RewardClaimed:     p.RewardClaimed,
	}
}

// IsZero reports whether p equals the untouched default.
func (p UnitProgress) IsZero() bool {
	return p.CompletedCards.Len() == 0 && !p.ExerciseCompleted && !p.RewardClaimed
}

// Reader exposes per-unit progress. Absent units read as the zero value.
type Reader interface {
	Unit(unitID int) UnitProgress
}

// UserProgress maps unit ID to that unit's progress.
type UserProgress map[int]UnitProgress

// Unit returns the unit's progress, or the zero value if untouched.
func (up UserProgress) Unit(unitID int) UnitProgress {
	return up[unitID]
}

// Clone returns a deep copy.
func (up UserProgress) Clone() UserProgress {
	out := make(UserProgress, len(up))
	for id, p := range up {
		out[id] = p.Clone()
	}
	return out
}
