package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chitouru-maker/khoushou3/internal/ui/components"
	"github.com/chitouru-maker/khoushou3/internal/ui/theme"
)

var levelCmd = &cobra.Command{
	Use:   "level <level-id>",
	Short: "List the units of a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levelID, err := parseID("level", args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		g := a.Engine.Graph()
		level, levelIndex, ok := g.LevelByID(levelID)
		if !ok {
			return fmt.Errorf("level %d not found", levelID)
		}

		out := cmd.OutOrStdout()
		r := theme.NewRenderer(out)
		v := a.Viewer(cmd.Context())
		ev := a.Engine.Evaluator()

		state := components.StateOf(ev.LevelUnlocked(v, levelIndex), ev.LevelCompleted(level))
		fmt.Fprintln(out, components.StatusLine(r, state, fmt.Sprintf("Level %d  %s", level.ID, level.Title)))
		if len(level.Units) == 0 {
			fmt.Fprintln(out, r.Render(theme.Hint, "No units yet. "+level.Teaser))
			return nil
		}
		fmt.Fprintln(out)

		// Header.
		fmt.Fprintf(out, "%-3s  %-6s  %-36s  %-7s  %-8s  %s\n",
			"", "Unit", "Title", "Cards", "Exercise", "Reward")
		fmt.Fprintln(out, strings.Repeat("─", 80))

		for i, unit := range level.Units {
			up := a.Engine.UnitProgress(unit.ID)
			done := 0
			for _, c := range unit.Cards {
				if ev.CardCompleted(unit.ID, c) {
					done++
				}
			}
			title := unit.Title
			if len(title) > 36 {
				title = title[:33] + "..."
			}
			unitState := components.StateOf(ev.UnitUnlocked(v, level, i), ev.UnitCompleted(unit))
			fmt.Fprintf(out, "%-3s  %-6d  %-36s  %-7s  %-8s  %s\n",
				unitState.Icon(), unit.ID, title,
				fmt.Sprintf("%d/%d", done, len(unit.Cards)),
				check(up.ExerciseCompleted), check(up.RewardClaimed))
		}

		fmt.Fprintf(out, "\n%d/%d units completed\n", ev.CompletedUnitsCount(level), len(level.Units))
		return nil
	},
}

func check(b bool) string {
	if b {
		return "✓"
	}
	return "·"
}
