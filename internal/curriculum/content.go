package curriculum

// SectionKind identifies the flavour of a card section.
type SectionKind string

const (
	SectionSharii  SectionKind = "sharii"
	SectionTarbawi SectionKind = "tarbawi"
	SectionScience SectionKind = "science"
	SectionTactile SectionKind = "tactile"
	SectionSummary SectionKind = "summary"
)

// AllSectionKinds returns all section kinds in display order.
func AllSectionKinds() []SectionKind {
	return []SectionKind{
		SectionSharii,
		SectionTarbawi,
		SectionScience,
		SectionTactile,
		SectionSummary,
	}
}

// DisplayName returns a human-readable label for the section kind.
func (k SectionKind) DisplayName() string {
	switch k {
	case SectionSharii:
		return "Sharia"
	case SectionTarbawi:
		return "Formation"
	case SectionScience:
		return "Science"
	case SectionTactile:
		return "Practice"
	case SectionSummary:
		return "Summary"
	default:
		return string(k)
	}
}

// MotivationalQuestion gates progression through a section until answered.
type MotivationalQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option_index"`
}

// IsCorrect reports whether choice is the correct option.
func (q MotivationalQuestion) IsCorrect(choice int) bool {
	return choice == q.CorrectOption
}

// QuizQuestion is a single multiple-choice question attached to a card.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option_index"`
	Explanation   string   `json:"explanation"`
}

// IsCorrect reports whether choice is the correct option.
func (q QuizQuestion) IsCorrect(choice int) bool {
	return choice == q.CorrectOption
}

// Section is the smallest navigable node. Sections are identified by kind,
// so a card carries at most one section of each kind.
type Section struct {
	ID       SectionKind           `json:"id"`
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Question *MotivationalQuestion `json:"motivational_question,omitempty"`
}

// Card is an ordered group of sections inside a unit.
type Card struct {
	ID       string         `json:"card_id"`
	Title    string         `json:"title"`
	Sections []Section      `json:"sections"`
	ImageURL string         `json:"imageUrl,omitempty"`
	Quiz     []QuizQuestion `json:"quiz,omitempty"`
}

// Exercise is the practical task that closes a unit.
type Exercise struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
	CTALabel     string `json:"cta_label"`
}

// Reward is granted once per unit after the exercise.
type Reward struct {
	Badge   string `json:"badge"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

// Unit groups cards with one exercise and one reward.
type Unit struct {
	ID       int      `json:"unit_id"`
	Title    string   `json:"title"`
	Cards    []Card   `json:"cards"`
	Exercise Exercise `json:"exercise"`
	Reward   *Reward  `json:"reward,omitempty"`
}

// RewardPoints returns the points granted by the unit's reward, 0 if none.
func (u Unit) RewardPoints() int {
	if u.Reward == nil {
		return 0
	}
	return u.Reward.Points
}

// CardIDs returns the unit's card IDs in order.
func (u Unit) CardIDs() []string {
	ids := make([]string, len(u.Cards))
	for i, c := range u.Cards {
		ids[i] = c.ID
	}
	return ids
}

// Level is the top tier of the curriculum. A level without units is a
// placeholder announced by its teaser.
type Level struct {
	ID     int    `json:"level_id"`
	Title  string `json:"title"`
	Teaser string `json:"teaser,omitempty"`
	Units  []Unit `json:"units"`
}

// AppInfo describes the curriculum as a whole.
type AppInfo struct {
	Name   string `json:"name"`
	Locale string `json:"locale"`
	RTL    bool   `json:"rtl"`
}

// Document is the serialized form of a curriculum.
type Document struct {
	App    AppInfo `json:"app"`
	Levels []Level `json:"levels"`
}
