package main

import (
	"github.com/entrhq/douyin-uploader/pkg/uploader"
	"github.com/spf13/cobra"
)

var checkShowBrowser bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the saved session is still logged in",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkShowBrowser, "show-browser", false, "run the check in a visible window")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	result := newUploader("").CheckLogin(cmd.Context(), uploader.CheckOptions{ShowBrowser: checkShowBrowser})
	if err := printCheck(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.IsValid {
		return failed(uploader.KindNoSession, "not logged in, run \"douyin-uploader login\"")
	}
	return nil
}
