package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/campaignforge/internal/gateway"
	"github.com/user/campaignforge/internal/types"
)

func init() {
	rootCmd.AddCommand(regenerateCmd)
	regenerateCmd.Flags().String("modify", "", "modification instructions appended to the generation prompt")
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <asset-id>",
	Short: "Regenerate one asset of a stored campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		orch, store, _, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		assetID := args[0]
		instructions, _ := cmd.Flags().GetString("modify")

		m, err := store.FindByAsset(context.Background(), assetID)
		if err != nil {
			return err
		}

		job := gateway.NewRegenerateJob(m.CampaignID, assetID, instructions)
		job.Ctx = cmd.Context()

		var result *types.Manifest
		job.OnComplete = func(m *types.Manifest, err error) { result = m }

		if err := orch.ProcessJob(job); err != nil {
			return fmt.Errorf("regenerate asset: %w", err)
		}

		for _, asset := range result.AssetPlan {
			if asset.ID == assetID {
				fmt.Fprintf(os.Stdout, "Asset %s regenerated at version %d.\n", assetID, asset.Version)
				break
			}
		}
		return nil
	},
}
