package progress

// Repository is the authoritative in-memory progress map. Entries are
// created on first touch and never removed; flags and card sets only grow.
// It is not safe for concurrent use; callers serialize access.
type Repository struct {
	units UserProgress
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{units: make(UserProgress)}
}

// Unit returns a copy of the unit's progress, or the zero value.
func (r *Repository) Unit(unitID int) UnitProgress {
	return r.units[unitID].Clone()
}

// Snapshot returns a deep copy of all progress.
func (r *Repository) Snapshot() UserProgress {
	return r.units.Clone()
}

// Restore replaces the repository contents, typically after load.
func (r *Repository) Restore(up UserProgress) {
	r.units = up.Clone()
	if r.units == nil {
		r.units = make(UserProgress)
	}
}

// MarkCard records a completed card. Returns false if it was already recorded.
func (r *Repository) MarkCard(unitID int, cardID string) bool {
	p := r.units[unitID]
	if p.CompletedCards.Has(cardID) {
		return false
	}
	p.CompletedCards.Add(cardID)
	r.units[unitID] = p
	return true
}

// MarkExercise records the unit's exercise. Returns false if already done.
func (r *Repository) MarkExercise(unitID int) bool {
	p := r.units[unitID]
	if p.ExerciseCompleted {
		return false
	}
	p.ExerciseCompleted = true
	r.units[unitID] = p
	return true
}

// MarkReward records the unit's reward claim. Returns false if already claimed.
func (r *Repository) MarkReward(unitID int) bool {
	p := r.units[unitID]
	if p.RewardClaimed {
		return false
	}
	p.RewardClaimed = true
	r.units[unitID] = p
	return true
}

// Prune drops card IDs for which belongs returns false and reports how
// many were removed. Used once after load so stored progress never
// references cards outside their unit.
func (r *Repository) Prune(belongs func(unitID int, cardID string) bool) int {
	dropped := 0
	for id, p := range r.units {
		kept := p.CompletedCards.Filter(func(cardID string) bool {
			return belongs(id, cardID)
		})
		if n := p.CompletedCards.Len() - kept.Len(); n > 0 {
			dropped += n
			p.CompletedCards = kept
			r.units[id] = p
		}
	}
	return dropped
}
