package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chitouru-maker/khoushou3/internal/curriculum"
	"github.com/chitouru-maker/khoushou3/internal/engine"
	"github.com/chitouru-maker/khoushou3/internal/points"
	"github.com/chitouru-maker/khoushou3/internal/ui/theme"
)

var completeCardCmd = &cobra.Command{
	Use:   "complete-card <unit-id> <card-id>",
	Short: "Mark a card as completed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitID, err := parseID("unit", args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if _, err := openCard(a, a.Viewer(ctx), unitID, args[1]); err != nil {
			return err
		}
		o := a.Engine.CompleteCard(ctx, unitID, args[1])
		if err := outcomeErr(o); err != nil {
			return err
		}
		report(cmd, o, fmt.Sprintf("Card %s completed", args[1]), points.CardPoints, "Card already completed")
		return nil
	},
}

var visitCmd = &cobra.Command{
	Use:   "visit <unit-id> <card-id> [section...]",
	Short: "Read the sections of a card in order",
	Long: `Visits the named sections of a card, or all of them in order. A card
whose sections have all been visited is completed. Sections that ask a
question need an answer, e.g. --answer sharii=1.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitID, err := parseID("unit", args[0])
		if err != nil {
			return err
		}
		answers, err := cmd.Flags().GetStringToInt("answer")
		if err != nil {
			return fmt.Errorf("parse --answer: %w", err)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		r := theme.NewRenderer(out)
		v := a.Viewer(ctx)

		card, err := openCard(a, v, unitID, args[1])
		if err != nil {
			return err
		}

		sections := make([]curriculum.SectionKind, 0, len(card.Sections))
		if len(args) > 2 {
			for _, s := range args[2:] {
				sections = append(sections, curriculum.SectionKind(s))
			}
		} else {
			for _, s := range card.Sections {
				sections = append(sections, s.ID)
			}
		}

		wasDone := a.Engine.UnitProgress(unitID).CompletedCards.Has(card.ID)
		for _, id := range sections {
			index := curriculum.SectionIndex(card, id)
			if index < 0 {
				return fmt.Errorf("card %q has no section %q", card.ID, id)
			}
			section := card.Sections[index]
			ev := a.Engine.Evaluator()
			if !ev.SectionUnlocked(v, unitID, card, index) {
				return fmt.Errorf("section %q is %w: visit the previous section first", id, errLocked)
			}

			if ev.RequiresAnswer(v, unitID, card, section) {
				choice, ok := answers[string(id)]
				if !ok {
					return fmt.Errorf("section %q asks %q %s; pass --answer %s=<n>",
						id, section.Question.Question, optionList(section.Question.Options), id)
				}
				correct, o := a.Engine.AnswerQuestion(ctx, unitID, card.ID, id, choice)
				if err := outcomeErr(o); err != nil {
					return err
				}
				if !correct {
					fmt.Fprintln(out, r.Render(theme.Incorrect, fmt.Sprintf("✗ %s: wrong answer", section.Title)))
					return fmt.Errorf("incorrect answer for section %q", id)
				}
				fmt.Fprintln(out, r.Render(theme.Correct, fmt.Sprintf("✓ %s: correct", section.Title)))
				continue
			}

			if err := outcomeErr(a.Engine.VisitSection(ctx, unitID, card.ID, id)); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ %s\n", section.Title)
		}

		if !wasDone && a.Engine.UnitProgress(unitID).CompletedCards.Has(card.ID) {
			fmt.Fprintln(out, r.Render(theme.Completed, fmt.Sprintf("Card %s completed", card.ID))+
				"  "+r.Render(theme.Points, fmt.Sprintf("+%d", points.CardPoints)))
		}
		return nil
	},
}

var completeExerciseCmd = &cobra.Command{
	Use:   "complete-exercise <unit-id>",
	Short: "Mark a unit's exercise as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitID, err := parseID("unit", args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		v := a.Viewer(ctx)
		unit, err := openUnit(a, v, unitID)
		if err != nil {
			return err
		}
		if !a.Engine.Evaluator().ExerciseUnlocked(v, unit) {
			return fmt.Errorf("exercise is %w: complete every card of unit %d first", errLocked, unitID)
		}

		o := a.Engine.CompleteExercise(ctx, unitID)
		if err := outcomeErr(o); err != nil {
			return err
		}
		report(cmd, o, fmt.Sprintf("Exercise of unit %d completed", unitID), points.ExercisePoints, "Exercise already completed")
		if o.Applied() {
			fmt.Fprintf(cmd.OutOrStdout(), "Streak  %s\n", dayCount(a.Engine.Streak().Count))
		}
		return nil
	},
}

var claimRewardCmd = &cobra.Command{
	Use:   "claim-reward <unit-id>",
	Short: "Claim a unit's reward",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitID, err := parseID("unit", args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		v := a.Viewer(ctx)
		unit, err := openUnit(a, v, unitID)
		if err != nil {
			return err
		}
		if !a.Engine.Evaluator().RewardUnlocked(v, unit) {
			return fmt.Errorf("reward is %w: complete the exercise of unit %d first", errLocked, unitID)
		}

		o := a.Engine.ClaimReward(ctx, unitID)
		if err := outcomeErr(o); err != nil {
			return err
		}
		msg := fmt.Sprintf("Reward of unit %d claimed", unitID)
		if unit.Reward != nil {
			msg = fmt.Sprintf("%s: %s", unit.Reward.Badge, unit.Reward.Message)
		}
		report(cmd, o, msg, unit.RewardPoints(), "Reward already claimed")
		return nil
	},
}

func init() {
	visitCmd.Flags().StringToInt("answer", nil, "Answers to section questions as section=option-index")
}

// report prints the result of an applied or repeated mutation.
func report(cmd *cobra.Command, o engine.Outcome, applied string, earned int, repeated string) {
	out := cmd.OutOrStdout()
	r := theme.NewRenderer(out)
	if o != engine.OutcomeApplied {
		fmt.Fprintln(out, r.Render(theme.Hint, repeated))
		return
	}
	line := r.Render(theme.Completed, applied)
	if earned > 0 {
		line += "  " + r.Render(theme.Points, fmt.Sprintf("+%d", earned))
	}
	fmt.Fprintln(out, line)
}

func optionList(options []string) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = fmt.Sprintf("%d) %s", i, o)
	}
	return "[" + strings.Join(parts, "  ") + "]"
}
