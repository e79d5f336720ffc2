package main

import (
	"fmt"
	"time"

	"github.com/entrhq/douyin-uploader/pkg/uploader"
	"github.com/spf13/cobra"
)

var (
	loginHeadless bool
	loginTimeout  time.Duration
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in through a browser window and save the session",
	Long: `Opens the creator portal and waits for you to log in, for example by
scanning the QR code with the Douyin app. The session cookies are saved
once the portal lands on the creator home page.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&loginHeadless, "headless", false, "hide the browser window")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 0, "how long to wait for the login (default from config)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	timeout := loginTimeout
	if timeout <= 0 {
		timeout = cfg.Timings.LoginTimeout
	}
	fmt.Fprintln(cmd.ErrOrStderr(), hintStyle.Render(fmt.Sprintf("Complete the login in the browser within %s...", timeout)))

	u := newUploader("")
	outcome := u.Login(cmd.Context(), uploader.LoginOptions{
		Headless: loginHeadless,
		Timeout:  timeout,
	})
	if err := printLogin(out, outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return failed(outcome.Kind, "login failed: "+outcome.Error)
	}
	return nil
}
