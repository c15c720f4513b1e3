package main

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/campaignforge/internal/state"
	"github.com/user/campaignforge/internal/types"
)

func init() {
	rootCmd.AddCommand(campaignCmd)
	campaignCmd.AddCommand(campaignListCmd, campaignShowCmd, campaignExportCmd)

	campaignExportCmd.Flags().String("out", "", "output ZIP path (default campaign_<id>.zip)")
}

func campaignStore() *state.CampaignStore {
	cfg := loadConfig()
	return state.NewCampaignStore(cfg.DataDir)
}

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Manage stored campaigns",
}

var campaignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all campaigns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := campaignStore().List(context.Background())
		if err != nil {
			return fmt.Errorf("list campaigns: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No campaigns found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tCREATED\tBRIEF")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				s.CampaignID,
				s.Status,
				s.CreatedAt,
				truncate(s.Brief, 60),
			)
		}
		return w.Flush()
	},
}

var campaignShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a campaign manifest as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := campaignStore().Get(context.Background(), types.CampaignID(args[0]))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	},
}

var campaignExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a campaign and its assets as a ZIP archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := types.CampaignID(args[0])
		m, err := campaignStore().Get(context.Background(), id)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fmt.Sprintf("campaign_%s.zip", id)
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create archive: %w", err)
		}
		defer f.Close()

		if err := writeArchive(f, m); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Campaign %s exported to %s.\n", id, out)
		return nil
	},
}

func writeArchive(f *os.File, m *types.Manifest) error {
	zw := zip.NewWriter(f)
	defer zw.Close()

	manifestJSON, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	w, err := zw.Create("campaign_manifest.json")
	if err != nil {
		return err
	}
	if _, err := w.Write(manifestJSON); err != nil {
		return err
	}

	for _, asset := range m.AssetPlan {
		if asset.URL != "" {
			data, err := os.ReadFile(asset.URL)
			if err == nil {
				w, err := zw.Create("assets/" + filepath.Base(asset.URL))
				if err != nil {
					return err
				}
				if _, err := w.Write(data); err != nil {
					return err
				}
			}
		}
		if asset.Content != "" {
			w, err := zw.Create("assets/" + asset.ID + ".txt")
			if err != nil {
				return err
			}
			if _, err := w.Write([]byte(asset.Content)); err != nil {
				return err
			}
		}
	}
	return nil
}
