package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// siteCmd groups the per-site commands
var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Inspect a Hotjar site",
}

// siteFeedCmd represents the site feed command
var siteFeedCmd = &cobra.Command{
	Use:     "feed SITE_ID",
	Short:   "Show the activity feed of a site",
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		siteID, err := parseID("site", args[0])
		if err != nil {
			return err
		}

		feed, err := client.GetSiteFeed(cmd.Context(), siteID)
		if err != nil {
			return fmt.Errorf("failed to get site feed: %w", err)
		}
		return printResult(cmd.OutOrStdout(), cfg.Output.Format, feed)
	},
}

// siteStatsCmd represents the site stats command
var siteStatsCmd = &cobra.Command{
	Use:     "stats SITE_ID",
	Aliases: []string{"statistics"},
	Short:   "Show the statistics of a site",
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		siteID, err := parseID("site", args[0])
		if err != nil {
			return err
		}

		stats, err := client.GetSiteStatistics(cmd.Context(), siteID)
		if err != nil {
			return fmt.Errorf("failed to get site statistics: %w", err)
		}
		return printResult(cmd.OutOrStdout(), cfg.Output.Format, stats)
	},
}

// widgetsCmd represents the widgets command
var widgetsCmd = &cobra.Command{
	Use:     "widgets SITE_ID",
	Short:   "List the feedback widgets of a site",
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		siteID, err := parseID("site", args[0])
		if err != nil {
			return err
		}

		widgets, err := client.GetFeedbackWidgets(cmd.Context(), siteID)
		if err != nil {
			return fmt.Errorf("failed to get feedback widgets: %w", err)
		}
		return printResult(cmd.OutOrStdout(), cfg.Output.Format, widgets)
	},
}

func init() {
	siteCmd.AddCommand(siteFeedCmd)
	siteCmd.AddCommand(siteStatsCmd)

	rootCmd.AddCommand(siteCmd)
	rootCmd.AddCommand(widgetsCmd)
}
