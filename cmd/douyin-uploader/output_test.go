package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/entrhq/douyin-uploader/pkg/prompt"
	"github.com/entrhq/douyin-uploader/pkg/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withJSON(t *testing.T, on bool) {
	t.Helper()
	prev := jsonOutput
	jsonOutput = on
	t.Cleanup(func() { jsonOutput = prev })
}

func TestPrintPublish_JSON(t *testing.T) {
	withJSON(t, true)

	var buf bytes.Buffer
	outcome := uploader.PublishOutcome{Success: true, Title: "t", Published: true, Status: uploader.StatusPublished}
	require.NoError(t, printPublish(&buf, outcome))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, true, got["published"])
	assert.Equal(t, "Published", got["status"])
	assert.NotContains(t, got, "error")
}

func TestPrintInfo_Text(t *testing.T) {
	withJSON(t, false)

	var buf bytes.Buffer
	info := uploader.SessionInfo{
		Exists:  true,
		Count:   12,
		User:    "Alice",
		Created: time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local),
	}
	require.NoError(t, printInfo(&buf, info))

	out := buf.String()
	assert.Contains(t, out, "Saved session")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "2026-03-01 09:30:00")
}

func TestPrintLogin_SkipsEmptyFields(t *testing.T) {
	withJSON(t, false)

	var buf bytes.Buffer
	require.NoError(t, printLogin(&buf, uploader.LoginOutcome{Success: false, Error: "login timeout"}))

	assert.Contains(t, buf.String(), "login timeout")
	assert.NotContains(t, buf.String(), "kind:")
}

func TestFailed(t *testing.T) {
	assert.EqualError(t, failed("", "boom"), "boom")
	assert.EqualError(t, failed(uploader.KindTimeout, "login failed"), "login failed (timeout)")
}

func TestCodeProvider_ExplicitCode(t *testing.T) {
	assert.Equal(t, prompt.Static("123456"), codeProvider("123456"))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"login", "check", "upload", "info", "clear", "version"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}

func TestUploadRequiresTitle(t *testing.T) {
	flag := uploadCmd.Flags().Lookup("title")
	require.NotNil(t, flag)
	assert.Equal(t, []string{"true"}, flag.Annotations["cobra_annotation_bash_completion_one_required_flag"])
}
