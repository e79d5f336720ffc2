package main

import (
	"context"
	"fmt"

	"github.com/entrhq/douyin-uploader/pkg/uploader"
	"github.com/spf13/cobra"
)

var (
	uploadTitle       string
	uploadDescription string
	uploadTags        []string
	uploadHeadless    bool
	uploadDraft       bool
	uploadCode        string
	uploadEnsureLogin bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <video>",
	Short: "Upload a video and publish it",
	Long: `Uploads a video with the saved session, fills in the title,
description and tags, and publishes it. If the portal asks for an SMS
code you are prompted for it, unless --code is given.`,
	Example: `  douyin-uploader upload clip.mp4 --title "周末" --tags 旅行,海边
  douyin-uploader upload clip.mp4 --title "草稿" --draft
  douyin-uploader upload clip.mp4 --title "周末" --ensure-login`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	f := uploadCmd.Flags()
	f.StringVarP(&uploadTitle, "title", "t", "", "video title (required)")
	f.StringVarP(&uploadDescription, "description", "d", "", "video description")
	f.StringSliceVar(&uploadTags, "tags", nil, "comma-separated hashtags")
	f.BoolVar(&uploadHeadless, "headless", false, "hide the browser window")
	f.BoolVar(&uploadDraft, "draft", false, "fill the form without clicking publish")
	f.StringVar(&uploadCode, "code", "", "SMS verification code, if already known")
	f.BoolVar(&uploadEnsureLogin, "ensure-login", false, "log in first when the saved session is not valid")
	_ = uploadCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	u := newUploader(uploadCode)

	if uploadEnsureLogin {
		if err := ensureLogin(ctx, cmd, u); err != nil {
			return err
		}
	}

	req := uploader.UploadRequest{
		VideoPath:   args[0],
		Title:       uploadTitle,
		Description: uploadDescription,
		Tags:        uploadTags,
		Headless:    uploadHeadless,
		AutoPublish: uploader.Bool(!uploadDraft),
	}
	outcome := u.UploadVideo(ctx, req)
	if err := printPublish(cmd.OutOrStdout(), outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return failed(outcome.Kind, "upload failed: "+outcome.Error)
	}
	return nil
}

// ensureLogin checks the saved session and runs an interactive login when
// it is missing or expired.
func ensureLogin(ctx context.Context, cmd *cobra.Command, u *uploader.Uploader) error {
	if result := u.CheckLogin(ctx, uploader.CheckOptions{}); result.IsValid {
		logger.Infof("session valid for %s", result.User)
		return nil
	}

	fmt.Fprintln(cmd.ErrOrStderr(), hintStyle.Render("Not logged in, opening the browser for login..."))
	outcome := u.Login(ctx, uploader.LoginOptions{})
	if !outcome.Success {
		return failed(outcome.Kind, "login failed: "+outcome.Error)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("Logged in as "+outcome.User))
	return nil
}
