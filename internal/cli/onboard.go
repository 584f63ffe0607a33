package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sashimi-app/sashimi/internal/config"
)

// --- onboard selection model ---

type onboardChoice int

const (
	choiceKeep onboardChoice = iota
	choiceOverwrite
	choiceSkip
)

type onboardModel struct {
	choices []string
	cursor  int
	chosen  bool
	choice  onboardChoice
}

func (m onboardModel) Init() tea.Cmd { return nil }

func (m onboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.choice = choiceSkip
			m.chosen = true
			return m, tea.Quit
		case tea.KeyUp, tea.KeyShiftTab:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown, tea.KeyTab:
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			m.choice = onboardChoice(m.cursor)
			m.chosen = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m onboardModel) View() string {
	if m.chosen {
		return ""
	}

	s := "\n"
	s += fmt.Sprintf("  Config already exists at %s\n\n", DimStyle.Render(config.ConfigPath()))

	for i, choice := range m.choices {
		cursor := "  "
		if i == m.cursor {
			cursor = SelfLabel.Render("❯ ")
		}
		s += "  " + cursor + choice + "\n"
	}

	s += "\n" + DimStyle.Render("  ↑/↓ navigate · enter select · ctrl+c cancel") + "\n"
	return s
}

// RunOnboard runs the onboard wizard: creates the data directory, the
// config file, and a credentials template the user fills in.
func RunOnboard() {
	cfgPath := config.ConfigPath()

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("  %s sashimi Onboard", Logo)))

	if _, err := os.Stat(cfgPath); err == nil {
		// Config exists — ask what to do
		m := onboardModel{
			choices: []string{
				"Keep — leave existing config untouched",
				"Overwrite — replace with fresh defaults",
				"Cancel",
			},
		}
		p := tea.NewProgram(m)
		final, err := p.Run()
		if err != nil {
			fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
			os.Exit(1)
		}
		fm := final.(onboardModel)

		fmt.Println()
		switch fm.choice {
		case choiceOverwrite:
			if err := config.Save(config.DefaultConfig()); err != nil {
				fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
				os.Exit(1)
			}
			fmt.Println("  " + OkStyle.Render("✓") + " Overwritten config")
		case choiceKeep:
			fmt.Println("  " + DimStyle.Render("Config unchanged"))
		default:
			fmt.Println("  " + DimStyle.Render("Canceled"))
			return
		}
	} else {
		if err := config.Save(config.DefaultConfig()); err != nil {
			fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
			os.Exit(1)
		}
		fmt.Println()
		fmt.Println("  " + OkStyle.Render("✓") + " Created config at " + DimStyle.Render(cfgPath))
	}

	createEnvTemplate(config.EnvPath())

	fmt.Println()
	fmt.Println(OkStyle.Render("  sashimi is ready!"))
	fmt.Println()
	fmt.Println(DimStyle.Render("  Next steps:"))
	fmt.Println(DimStyle.Render("  1. Fill in your X API keys in " + config.EnvPath()))
	fmt.Println(DimStyle.Render("  2. Post a tweet: sashimi post \"Hello!\""))
	fmt.Println(DimStyle.Render("  3. Start auto-reply: sashimi autoreply"))
	fmt.Println()
}

const envTemplate = `API_KEY=YOUR_API_KEY
API_SECRET=YOUR_API_SECRET
ACCESS_TOKEN=YOUR_ACCESS_TOKEN
ACCESS_TOKEN_SECRET=YOUR_ACCESS_TOKEN_SECRET
`

func createEnvTemplate(path string) {
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.WriteFile(path, []byte(envTemplate), 0o600); err != nil {
		fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
		return
	}
	fmt.Println("  " + OkStyle.Render("✓") + " Credentials template at " + DimStyle.Render(path))
}
