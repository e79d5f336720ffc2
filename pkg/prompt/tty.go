package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mutedGray  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().Foreground(salmonPink).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(mutedGray).Italic(true)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)

// TTY asks for the code with an interactive terminal prompt.
type TTY struct {
	in  io.Reader
	out io.Writer
}

// NewTTY creates a terminal provider. Nil streams use the process terminal.
func NewTTY(in io.Reader, out io.Writer) *TTY {
	return &TTY{in: in, out: out}
}

// VerificationCode runs the prompt until the user submits or cancels.
func (t *TTY) VerificationCode(ctx context.Context) (string, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.in != nil {
		opts = append(opts, tea.WithInput(t.in))
	}
	if t.out != nil {
		opts = append(opts, tea.WithOutput(t.out))
	}

	final, err := tea.NewProgram(newCodeModel(), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(codeModel)
	if !ok || m.cancelled {
		return "", ErrCancelled
	}
	return m.value, nil
}

// codeModel is the bubbletea model behind TTY.
type codeModel struct {
	input     textinput.Model
	value     string
	cancelled bool
	done      bool
}

func newCodeModel() codeModel {
	input := textinput.New()
	input.Placeholder = "123456"
	input.CharLimit = 8
	input.Width = 12
	input.Prompt = "> "
	input.Validate = digitsOnly
	input.Focus()

	return codeModel{input: input}
}

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("digits only")
		}
	}
	return nil
}

func (m codeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m codeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m codeModel) View() string {
	if m.done {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("短信验证 / SMS verification"),
		"A code was sent to the phone bound to this account.",
		m.input.View(),
		hintStyle.Render("enter to submit • esc to cancel"),
	)
	return boxStyle.Render(body) + "\n"
}
