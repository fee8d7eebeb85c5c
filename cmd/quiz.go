package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chitouru-maker/khoushou3/internal/points"
	"github.com/chitouru-maker/khoushou3/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <unit-id> [question-index choice]",
	Short: "List a unit's quiz questions, or answer one",
	Args:  cobra.MatchAll(cobra.RangeArgs(1, 3), notExactly(2)),
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
		out := cmd.OutOrStdout()
		r := theme.NewRenderer(out)

		if _, err := openUnit(a, a.Viewer(ctx), unitID); err != nil {
			return err
		}
		quiz := a.Engine.Graph().UnitQuiz(unitID)
		if len(quiz) == 0 {
			fmt.Fprintf(out, "Unit %d has no quiz.\n", unitID)
			return nil
		}

		if len(args) == 1 {
			for i, q := range quiz {
				fmt.Fprintf(out, "%d. %s\n", i, q.Question)
				for j, opt := range q.Options {
					fmt.Fprintf(out, "     %d) %s\n", j, opt)
				}
			}
			fmt.Fprintln(out, r.Render(theme.Hint,
				fmt.Sprintf("\nAnswer with: khoushou quiz %d <question> <choice>", unitID)))
			return nil
		}

		qIndex, err := parseID("question", args[1])
		if err != nil {
			return err
		}
		choice, err := parseID("choice", args[2])
		if err != nil {
			return err
		}

		correct, o := a.Engine.AnswerQuiz(ctx, unitID, qIndex, choice)
		if err := outcomeErr(o); err != nil {
			return err
		}
		q := quiz[qIndex]
		if correct {
			fmt.Fprintln(out, r.Render(theme.Correct, "✓ Correct")+"  "+
				r.Render(theme.Points, fmt.Sprintf("+%d", points.QuizPoints)))
		} else {
			fmt.Fprintln(out, r.Render(theme.Incorrect, "✗ Incorrect"))
		}
		if q.Explanation != "" {
			fmt.Fprintln(out, r.Render(theme.Hint, q.Explanation))
		}
		return nil
	},
}

// notExactly rejects exactly n positional arguments.
func notExactly(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return fmt.Errorf("expected %d or %d args, got %d", n-1, n+1, n)
		}
		return nil
	}
}
