package main

import (
	"fmt"
	"os"

	"github.com/entrhq/douyin-uploader/pkg/config"
	"github.com/entrhq/douyin-uploader/pkg/logging"
	"github.com/entrhq/douyin-uploader/pkg/prompt"
	"github.com/entrhq/douyin-uploader/pkg/uploader"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	jsonOutput bool

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "douyin-uploader",
	Short: "Publish videos to the Douyin creator portal",
	Long: `Drives a real browser against creator.douyin.com.

Run "login" once and finish the login in the browser window. Later
commands reuse the saved cookies until the portal expires them.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	logger, err = logging.NewLogger(cfg.Paths.LogDir, cmd.Name())
	if err != nil {
		fmt.Fprintln(os.Stderr, hintStyle.Render("logging to stderr: "+err.Error()))
	}
	return nil
}

// newUploader builds the uploader for this run. An explicit code skips the
// interactive prompt.
func newUploader(code string) *uploader.Uploader {
	return uploader.NewFromConfig(cfg, codeProvider(code), logger)
}

func codeProvider(code string) uploader.CodeProvider {
	if code != "" {
		return prompt.Static(code)
	}
	if isTerminal(os.Stdin) {
		return prompt.NewTTY(nil, os.Stderr)
	}
	return prompt.NewReader(os.Stdin, os.Stderr)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
