package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chitouru-maker/khoushou3/internal/ui/components"
	"github.com/chitouru-maker/khoushou3/internal/ui/theme"
)

var unitCmd = &cobra.Command{
	Use:   "unit <unit-id>",
	Short: "Show the cards, sections, exercise and reward of a unit",
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

		g := a.Engine.Graph()
		unit, err := g.GetUnit(unitID)
		if err != nil {
			return err
		}
		level, index, _ := g.LevelOfUnit(unitID)

		out := cmd.OutOrStdout()
		r := theme.NewRenderer(out)
		v := a.Viewer(cmd.Context())
		ev := a.Engine.Evaluator()
		up := a.Engine.UnitProgress(unitID)

		unitState := components.StateOf(ev.UnitUnlocked(v, level, index), ev.UnitCompleted(unit))
		fmt.Fprintln(out, components.StatusLine(r, unitState, fmt.Sprintf("Unit %d  %s", unit.ID, unit.Title)))
		fmt.Fprintln(out)

		for ci, card := range unit.Cards {
			cardState := components.StateOf(ev.CardUnlocked(v, unit, ci), ev.CardCompleted(unit.ID, card))
			fmt.Fprintln(out, "  "+components.StatusLine(r, cardState, fmt.Sprintf("%s  %s", card.ID, card.Title)))
			for si, section := range card.Sections {
				sectionState := components.StateOf(
					ev.SectionUnlocked(v, unit.ID, card, si),
					ev.SectionCompleted(unit.ID, card, section.ID))
				label := fmt.Sprintf("%-9s %s", section.ID.DisplayName(), section.Title)
				if ev.RequiresAnswer(v, unit.ID, card, section) {
					label += r.Render(theme.Hint, "  (question)")
				}
				fmt.Fprintln(out, "      "+components.StatusLine(r, sectionState, label))
			}
		}
		fmt.Fprintln(out)

		exState := components.StateOf(ev.ExerciseUnlocked(v, unit), up.ExerciseCompleted)
		fmt.Fprintln(out, components.StatusLine(r, exState, "Exercise  "+unit.Exercise.Title))

		if unit.Reward != nil {
			rwState := components.StateOf(ev.RewardUnlocked(v, unit), up.RewardClaimed)
			fmt.Fprintln(out, components.StatusLine(r, rwState,
				fmt.Sprintf("Reward    %s (+%d)", unit.Reward.Badge, unit.Reward.Points)))
		}

		if n := len(g.UnitQuiz(unitID)); n > 0 {
			fmt.Fprintln(out, r.Render(theme.Hint, fmt.Sprintf("\n%d quiz questions: khoushou quiz %d", n, unitID)))
		}
		return nil
	},
}
