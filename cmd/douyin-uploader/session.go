package main

import (
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the saved session without contacting the portal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printInfo(cmd.OutOrStdout(), newUploader("").SessionInfo())
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved session and browser profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		newUploader("").ClearSession()
		return report(cmd.OutOrStdout(), true, "Session cleared", map[string]bool{"success": true})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// No config is needed to print the version
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("douyin-uploader v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd, clearCmd, versionCmd)
}
