package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/tags"
)

var (
	tagsInput  string
	tagsClean  bool
	tagsOutput string
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Inspect and maintain lead tag collections",
}

var tagsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Tag usage counts across a lead file, by provenance",
	RunE: func(cmd *cobra.Command, args []string) error {
		leads, err := loadLeads(tagsInput)
		if err != nil {
			return err
		}

		for _, s := range tags.Statistics(leads) {
			fmt.Printf("%-30s total=%-4d auto=%-4d ai=%-4d manual=%d\n",
				s.FullTag, s.Total,
				s.ByApplied[model.AppliedByAuto],
				s.ByApplied[model.AppliedByAI],
				s.ByApplied[model.AppliedByManual],
			)
		}
		return nil
	},
}

var tagsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report tag warnings; optionally clean duplicates and invalid tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		leads, err := loadLeads(tagsInput)
		if err != nil {
			return err
		}

		for _, l := range leads {
			if l == nil {
				continue
			}
			for _, w := range tags.Validate(l) {
				fmt.Printf("%s: %s\n", l.Name, w)
			}
			if tagsClean {
				if dropped := tags.Clean(l); dropped > 0 {
					fmt.Printf("%s: dropped %d tags\n", l.Name, dropped)
				}
			}
		}

		if tagsClean {
			return saveLeads(tagsOutput, leads)
		}
		return nil
	},
}

func init() {
	tagsCmd.PersistentFlags().StringVar(&tagsInput, "input", "", "leads JSON file (required)")
	_ = tagsCmd.MarkPersistentFlagRequired("input")
	tagsValidateCmd.Flags().BoolVar(&tagsClean, "clean", false, "drop duplicate and invalid tags")
	tagsValidateCmd.Flags().StringVar(&tagsOutput, "output", "-", "output file when cleaning, - for stdout")
	tagsCmd.AddCommand(tagsStatsCmd, tagsValidateCmd)
	rootCmd.AddCommand(tagsCmd)
}
