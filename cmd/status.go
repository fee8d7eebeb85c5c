package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chitouru-maker/khoushou3/internal/streak"
	"github.com/chitouru-maker/khoushou3/internal/ui/components"
	"github.com/chitouru-maker/khoushou3/internal/ui/theme"
)

const barWidth = 20

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show points, streak and level progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd)
	},
}

func runStatus(cmd *cobra.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	r := theme.NewRenderer(out)
	v := a.Viewer(ctx)
	g := a.Engine.Graph()
	ev := a.Engine.Evaluator()

	name := g.App().Name
	if name == "" {
		name = "khoushou"
	}
	fmt.Fprintln(out, r.Render(theme.Title, name))

	st := a.Engine.Streak()
	fmt.Fprintf(out, "Points  %s   Streak  %s (next milestone %d)",
		r.Render(theme.Points, fmt.Sprint(a.Engine.Points())),
		r.Render(theme.Points, dayCount(st.Count)),
		streak.NextMilestone(st.Count))
	if v.IsAdmin {
		fmt.Fprint(out, "   "+r.Render(theme.Hint, "[admin]"))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	for i, level := range g.Levels() {
		state := components.StateOf(ev.LevelUnlocked(v, i), ev.LevelCompleted(level))
		label := fmt.Sprintf("Level %d  %s", level.ID, level.Title)
		fmt.Fprintln(out, components.StatusLine(r, state, label))

		if len(level.Units) == 0 {
			if level.Teaser != "" {
				fmt.Fprintln(out, "    "+r.Render(theme.Hint, level.Teaser))
			}
			continue
		}
		bar := components.NewProgressBar("", ev.CompletionPercent(level), true, barWidth)
		fmt.Fprintf(out, "    %s  %d/%d units\n", bar.View(r), ev.CompletedUnitsCount(level), len(level.Units))
	}
	return nil
}

func dayCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
