package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/autotag"
)

var (
	retagInput  string
	retagOutput string
)

var retagCmd = &cobra.Command{
	Use:   "retag",
	Short: "Strip auto tags and rerun classification, preserving ai/manual tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		leads, err := loadLeads(retagInput)
		if err != nil {
			return err
		}

		for i, l := range leads {
			if l == nil {
				continue
			}
			leads[i] = autotag.Retag(l, autotag.Options{})
		}

		zap.L().Info("retagged leads", zap.Int("count", len(leads)))
		return saveLeads(retagOutput, leads)
	},
}

func init() {
	retagCmd.Flags().StringVar(&retagInput, "input", "", "leads JSON file (required)")
	retagCmd.Flags().StringVar(&retagOutput, "output", "-", "output file, - for stdout")
	_ = retagCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(retagCmd)
}
