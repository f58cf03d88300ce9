package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var resourcesUserID int64

// meCmd represents the me command
var meCmd = &cobra.Command{
	Use:     "me",
	Short:   "Show the logged in user's account info",
	Args:    cobra.NoArgs,
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := client.GetCurrentUserInfo(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get current user: %w", err)
		}
		return printResult(cmd.OutOrStdout(), cfg.Output.Format, info)
	},
}

// resourcesCmd represents the resources command
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the sites and organizations of a user",
	Long: `List the sites and organizations visible to a user.
Without --user the logged in user is used.`,
	Args:    cobra.NoArgs,
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		resources, err := client.GetResources(cmd.Context(), resourcesUserID)
		if err != nil {
			return fmt.Errorf("failed to get resources: %w", err)
		}
		return printResult(cmd.OutOrStdout(), cfg.Output.Format, resources)
	},
}

func init() {
	rootCmd.AddCommand(meCmd)
	rootCmd.AddCommand(resourcesCmd)

	resourcesCmd.Flags().Int64Var(&resourcesUserID, "user", 0, "user id (default is the logged in user)")
}

// parseID parses a positional site or widget id
func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %q", kind, s)
	}
	return id, nil
}
