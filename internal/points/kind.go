package points

// Fixed award amounts.
const (
	CardPoints     = 5
	ExercisePoints = 10
	QuizPoints     = 2
)

// Kind identifies what earned an award.
type Kind string

const (
	KindCard     Kind = "card"
	KindExercise Kind = "exercise"
	KindReward   Kind = "reward"
	KindQuiz     Kind = "quiz"
	KindBonus    Kind = "bonus"
)

// AllKinds returns all award kinds in display order.
func AllKinds() []Kind {
	return []Kind{KindCard, KindExercise, KindReward, KindQuiz, KindBonus}
}

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindCard:
		return "Cards"
	case KindExercise:
		return "Exercises"
	case KindReward:
		return "Rewards"
	case KindQuiz:
		return "Quiz answers"
	case KindBonus:
		return "Bonus"
	default:
		return string(k)
	}
}

// Icon returns the display icon for the kind.
func (k Kind) Icon() string {
	switch k {
	case KindCard:
		return "📖"
	case KindExercise:
		return "✍️"
	case KindReward:
		return "🏆"
	case KindQuiz:
		return "❓"
	case KindBonus:
		return "⭐"
	default:
		return "✦"
	}
}
