package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/campaignforge/internal/gateway"
	"github.com/user/campaignforge/internal/types"
)

func init() {
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <brief>",
	Short: "Generate a campaign from a marketing brief",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		orch, _, _, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		brief := strings.Join(args, " ")
		job := gateway.NewGenerateJob(brief)
		job.Ctx = cmd.Context()

		var result *types.Manifest
		job.OnComplete = func(m *types.Manifest, err error) { result = m }

		if err := orch.ProcessJob(job); err != nil {
			return fmt.Errorf("generate campaign: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Campaign %s is %s.\n\n", result.CampaignID, result.Status)
		printAssets(result)
		return nil
	},
}

func printAssets(m *types.Manifest) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ASSET\tTYPE\tVERSION\tMODERATION\tOUTPUT")
	for _, asset := range m.AssetPlan {
		output := asset.URL
		if output == "" {
			output = truncate(asset.Content, 60)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%s\n",
			asset.ID,
			asset.Type,
			asset.Version,
			asset.Safety.ModerationPassed,
			output,
		)
	}
	w.Flush()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
