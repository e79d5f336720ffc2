package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/douyin-uploader/pkg/uploader"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB3BA"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

// field is one labelled line of human output.
type field struct {
	label string
	value interface{}
}

// report writes v as JSON in --json mode, otherwise a headline followed by
// the non-empty fields.
func report(w io.Writer, ok bool, headline string, v interface{}, fields ...field) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	style := successStyle
	if !ok {
		style = errorStyle
	}
	if _, err := fmt.Fprintln(w, style.Render(headline)); err != nil {
		return err
	}
	for _, f := range fields {
		if f.value == nil || f.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s %v\n", labelStyle.Render(f.label+":"), f.value); err != nil {
			return err
		}
	}
	return nil
}

// failed turns an unsuccessful result into the command's error so the
// process exits non-zero.
func failed(kind uploader.Kind, msg string) error {
	if kind == "" {
		return errors.New(msg)
	}
	return fmt.Errorf("%s (%s)", msg, kind)
}

func printLogin(w io.Writer, o uploader.LoginOutcome) error {
	if !o.Success {
		return report(w, false, "Login failed", o, field{"error", o.Error}, field{"kind", string(o.Kind)})
	}
	return report(w, true, "Logged in", o, field{"user", o.User}, field{"cookies", o.CookieCount})
}

func printCheck(w io.Writer, r uploader.CheckResult) error {
	if !r.IsValid {
		return report(w, false, "Session is not valid", r)
	}
	return report(w, true, "Session is valid", r, field{"user", r.User})
}

func printPublish(w io.Writer, o uploader.PublishOutcome) error {
	if !o.Success {
		return report(w, false, "Upload failed", o, field{"error", o.Error}, field{"kind", string(o.Kind)})
	}
	return report(w, true, o.Status, o, field{"title", o.Title})
}

func printInfo(w io.Writer, info uploader.SessionInfo) error {
	if !info.Exists {
		return report(w, false, "No saved session", info)
	}
	created := ""
	if !info.Created.IsZero() {
		created = info.Created.Format("2006-01-02 15:04:05")
	}
	return report(w, true, "Saved session", info,
		field{"file", info.File},
		field{"user", info.User},
		field{"cookies", info.Count},
		field{"created", created},
	)
}
