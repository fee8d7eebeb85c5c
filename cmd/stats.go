package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chitouru-maker/khoushou3/internal/points"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show points by source and recent awards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		byKind, total, err := a.Engine.Awards().Totals(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%-4s  %-12s  %6s\n", "", "Source", "Points")
		fmt.Fprintln(out, strings.Repeat("─", 26))
		for _, k := range points.AllKinds() {
			fmt.Fprintf(out, "%-4s  %-12s  %6d\n", k.Icon(), k.DisplayName(), byKind[k])
		}
		fmt.Fprintln(out, strings.Repeat("─", 26))
		fmt.Fprintf(out, "%-4s  %-12s  %6d\n", "", "Journaled", total)
		fmt.Fprintf(out, "%-4s  %-12s  %6d\n", "", "Balance", a.Engine.Points())

		awards, err := a.Engine.Awards().Recent(ctx, limit)
		if err != nil {
			return err
		}
		if len(awards) == 0 {
			fmt.Fprintln(out, "\nNo awards yet.")
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-19s  %-10s  %5s  %-12s  %6s\n", "Timestamp", "Source", "Unit", "Card", "Points")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, aw := range awards {
			unit := "-"
			if aw.UnitID != 0 {
				unit = fmt.Sprint(aw.UnitID)
			}
			card := aw.CardID
			if card == "" {
				card = "-"
			}
			fmt.Fprintf(out, "%-19s  %-10s  %5s  %-12s  %+6d\n",
				aw.AwardedAt.Local().Format("2006-01-02 15:04:05"),
				aw.Kind.DisplayName(), unit, card, aw.Amount)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent awards to show")
}
