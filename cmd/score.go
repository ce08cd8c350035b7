package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/scorer"
)

var scoreInput string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute tag-weight scores for leads without enriching",
	RunE: func(cmd *cobra.Command, args []string) error {
		leads, err := loadLeads(scoreInput)
		if err != nil {
			return err
		}

		for _, l := range leads {
			if l == nil {
				continue
			}
			score := scorer.TagScore(l)
			fmt.Printf("%-30s score=%3d tier=%s\n", l.Name, score, scorer.TierForScore(score))
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreInput, "input", "", "leads JSON file (required)")
	_ = scoreCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(scoreCmd)
}
