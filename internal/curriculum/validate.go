package curriculum

import (
	"fmt"
	"strings"
)

// validateLevels performs all structural checks on the given levels.
// Returns a combined error describing all problems found, or nil if valid.
func validateLevels(levels []Level) error {
	var errs []string

	levelIDs := make(map[int]bool, len(levels))
	unitIDs := make(map[int]int)

	for _, l := range levels {
		if levelIDs[l.ID] {
			errs = append(errs, fmt.Sprintf("duplicate level ID: %d", l.ID))
		}
		levelIDs[l.ID] = true

		for _, u := range l.Units {
			if owner, dup := unitIDs[u.ID]; dup {
				errs = append(errs, fmt.Sprintf("duplicate unit ID %d (levels %d and %d)", u.ID, owner, l.ID))
			}
			unitIDs[u.ID] = l.ID

			if u.Reward != nil && u.Reward.Points < 0 {
				errs = append(errs, fmt.Sprintf("unit %d: reward points must be >= 0, got %d", u.ID, u.Reward.Points))
			}

			errs = append(errs, validateCards(u)...)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("curriculum validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateCards(u Unit) []string {
	var errs []string
	cardIDs := make(map[string]bool, len(u.Cards))

	for _, c := range u.Cards {
		prefix := fmt.Sprintf("unit %d card %q", u.ID, c.ID)
		if c.ID == "" {
			errs = append(errs, fmt.Sprintf("unit %d: card with empty ID", u.ID))
		}
		if cardIDs[c.ID] {
			errs = append(errs, fmt.Sprintf("unit %d: duplicate card ID %q", u.ID, c.ID))
		}
		cardIDs[c.ID] = true

		sectionIDs := make(map[SectionKind]bool, len(c.Sections))
		for _, s := range c.Sections {
			if sectionIDs[s.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate section %q", prefix, s.ID))
			}
			sectionIDs[s.ID] = true

			if q := s.Question; q != nil && !validOption(q.CorrectOption, len(q.Options)) {
				errs = append(errs, fmt.Sprintf("%s section %q: correct option %d out of range [0,%d)",
					prefix, s.ID, q.CorrectOption, len(q.Options)))
			}
		}

		for i, q := range c.Quiz {
			if !validOption(q.CorrectOption, len(q.Options)) {
				errs = append(errs, fmt.Sprintf("%s quiz %d: correct option %d out of range [0,%d)",
					prefix, i, q.CorrectOption, len(q.Options)))
			}
		}
	}
	return errs
}

func validOption(idx, n int) bool {
	return idx >= 0 && idx < n
}
