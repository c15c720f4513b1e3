package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/campaignforge/internal/state"
)

func init() {
	rootCmd.AddCommand(briefCmd)
	briefCmd.AddCommand(briefAddCmd, briefListCmd, briefRemoveCmd, briefEnableCmd, briefDisableCmd)

	briefAddCmd.Flags().String("name", "", "brief name (required)")
	briefAddCmd.Flags().String("brief", "", "brief text (required)")
	briefAddCmd.Flags().String("schedule", "", "cron schedule expression")
	briefAddCmd.Flags().String("notify", "", "notification target, e.g. telegram:<chat-id>")
	_ = briefAddCmd.MarkFlagRequired("name")
	_ = briefAddCmd.MarkFlagRequired("brief")
}

func briefStore() *state.BriefStore {
	cfg := loadConfig()
	return state.NewBriefStore(cfg.DataDir)
}

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Manage recurring briefs",
}

var briefAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recurring brief",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		text, _ := cmd.Flags().GetString("brief")
		schedule, _ := cmd.Flags().GetString("schedule")
		notify, _ := cmd.Flags().GetString("notify")

		if _, err := briefStore().Add(name, text, schedule, notify); err != nil {
			return fmt.Errorf("add brief: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Brief %q added.\n", name)
		return nil
	},
}

var briefListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recurring briefs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		briefs, err := briefStore().List()
		if err != nil {
			return fmt.Errorf("list briefs: %w", err)
		}

		if len(briefs) == 0 {
			fmt.Println("No briefs configured.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSCHEDULE\tENABLED\tNOTIFY\tBRIEF")
		for _, b := range briefs {
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\n",
				b.Name,
				b.Schedule,
				b.Enabled,
				b.Notify,
				truncate(b.Brief, 40),
			)
		}
		return w.Flush()
	},
}

var briefRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a recurring brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := briefStore().Remove(args[0]); err != nil {
			return fmt.Errorf("remove brief: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Brief %q removed.\n", args[0])
		return nil
	},
}

var briefEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a recurring brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := briefStore().SetEnabled(args[0], true); err != nil {
			return fmt.Errorf("enable brief: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Brief %q enabled.\n", args[0])
		return nil
	},
}

var briefDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a recurring brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := briefStore().SetEnabled(args[0], false); err != nil {
			return fmt.Errorf("disable brief: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Brief %q disabled.\n", args[0])
		return nil
	},
}
