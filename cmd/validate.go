package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chitouru-maker/khoushou3/internal/curriculum"
)

var validateCmd = &cobra.Command{
	Use:         "validate <curriculum-file>",
	Short:       "Check a JSON or YAML curriculum file",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := curriculum.LoadFile(args[0])
		if err != nil {
			return err
		}

		units, cards, sections, quiz := 0, 0, 0, 0
		for _, level := range g.Levels() {
			units += len(level.Units)
			for _, u := range level.Units {
				cards += len(u.Cards)
				quiz += len(g.UnitQuiz(u.ID))
				for _, c := range u.Cards {
					sections += len(c.Sections)
				}
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d levels, %d units, %d cards, %d sections, %d quiz questions\n",
			args[0], g.LevelCount(), units, cards, sections, quiz)
		return nil
	},
}
