package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sashimi-app/sashimi/internal/schedule"
)

const tweetMaxLen = 280

// --- message types ---

type postResultMsg struct {
	text string
	id   string
	err  error
}

// --- compose entry ---

type composeEntry struct {
	text string
	id   string
	err  error
}

// --- interactive compose model ---

type composeModel struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	sent       []composeEntry
	waiting    bool
	cancelFunc context.CancelFunc

	post schedule.PostFunc
	ctx  context.Context

	ready  bool
	width  int
	height int
}

func newComposeModel(ctx context.Context, post schedule.PostFunc) composeModel {
	ti := textinput.New()
	ti.Placeholder = "Type a tweet..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Prompt = "❯ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(Accent)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Accent)

	return composeModel{
		input:   ti,
		spinner: sp,
		post:    post,
		ctx:     ctx,
	}
}

func (m composeModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m composeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Layout: header(1) + divider(1) + viewport + divider(1) + input(1) + status(1) = 5 fixed
		vpHeight := msg.Height - 5
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 4
		m.viewport.SetContent(m.renderSent())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			if isExitCmd(text) {
				return m, tea.Quit
			}
			m.input.SetValue("")
			m.input.Blur()
			m.waiting = true
			postCtx, cancel := context.WithCancel(m.ctx)
			m.cancelFunc = cancel
			return m, m.sendTweet(postCtx, text)
		case tea.KeyEsc:
			if m.waiting && m.cancelFunc != nil {
				m.cancelFunc()
				m.cancelFunc = nil
			}
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case postResultMsg:
		m.waiting = false
		m.cancelFunc = nil
		focusCmd := m.input.Focus()
		if errors.Is(msg.err, context.Canceled) {
			msg.err = errors.New("interrupted")
		}
		m.sent = append(m.sent, composeEntry{text: msg.text, id: msg.id, err: msg.err})
		m.viewport.SetContent(m.renderSent())
		m.viewport.GotoBottom()
		return m, focusCmd

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Route remaining events to input when not waiting
	if !m.waiting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m composeModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := TitleStyle.Render(fmt.Sprintf(" %s sashimi", Logo))
	divider := DimStyle.Render(strings.Repeat("─", m.width))

	var inputLine string
	if m.waiting {
		inputLine = fmt.Sprintf(" %s Posting... (Esc to stop)", m.spinner.View())
	} else {
		inputLine = " " + m.input.View()
	}

	return header + "\n" +
		divider + "\n" +
		m.viewport.View() + "\n" +
		divider + "\n" +
		inputLine + "\n" +
		m.renderStatusBar()
}

func (m composeModel) renderSent() string {
	if len(m.sent) == 0 {
		var sb strings.Builder
		sb.WriteString("\n")
		sb.WriteString(RenderBanner())
		sb.WriteString("\n")
		sb.WriteString(DimStyle.Render("  Type a tweet and press enter to post it.") + "\n")
		sb.WriteString(DimStyle.Render("  exit or ctrl+c to quit.") + "\n")
		return sb.String()
	}

	var sb strings.Builder
	for _, e := range m.sent {
		sb.WriteString("\n")
		if e.err != nil {
			sb.WriteString("  " + ErrStyle.Render("✗ "+e.err.Error()) + "\n")
		} else {
			sb.WriteString("  " + SelfLabel.Render("✓ posted") + " " + DimStyle.Render("id "+e.id) + "\n")
		}
		for _, line := range strings.Split(e.text, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
	return sb.String()
}

func (m composeModel) renderStatusBar() string {
	left := DimStyle.Render(fmt.Sprintf(" %d sent", countOK(m.sent)))

	n := len([]rune(m.input.Value()))
	counter := fmt.Sprintf("%d/%d ", n, tweetMaxLen)
	var right string
	if n > tweetMaxLen {
		right = ErrStyle.Render(counter)
	} else {
		right = DimStyle.Render(counter)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m composeModel) sendTweet(ctx context.Context, text string) tea.Cmd {
	return func() tea.Msg {
		id, err := m.post(ctx, text)
		return postResultMsg{text: text, id: id, err: err}
	}
}

func countOK(entries []composeEntry) int {
	n := 0
	for _, e := range entries {
		if e.err == nil {
			n++
		}
	}
	return n
}

func isExitCmd(s string) bool {
	s = strings.ToLower(s)
	return s == "exit" || s == "quit" || s == "/exit" || s == "/quit" || s == ":q"
}

// RunCompose starts the interactive tweet composer TUI.
func RunCompose(ctx context.Context, post schedule.PostFunc) error {
	m := newComposeModel(ctx, post)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// --- single post model ---

type singleModel struct {
	spinner spinner.Model
	post    schedule.PostFunc
	ctx     context.Context
	message string
	result  postResultMsg
	done    bool
}

func (m singleModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			id, err := m.post(m.ctx, m.message)
			return postResultMsg{text: m.message, id: id, err: err}
		},
	)
}

func (m singleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case postResultMsg:
		m.result = msg
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m singleModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("\n %s Posting...\n", m.spinner.View())
}

// RunSinglePost posts one tweet with a spinner, then prints the result.
func RunSinglePost(ctx context.Context, post schedule.PostFunc, message string) error {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Accent)

	m := singleModel{
		spinner: sp,
		post:    post,
		ctx:     ctx,
		message: message,
	}

	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}

	fm := final.(singleModel)
	if fm.result.err != nil {
		fmt.Println(ErrStyle.Render("\n  Error: " + fm.result.err.Error()))
		return fm.result.err
	}

	fmt.Println()
	fmt.Println("  " + OkStyle.Render("✓") + " Posted " + DimStyle.Render("id "+fm.result.id))
	fmt.Println()
	return nil
}
