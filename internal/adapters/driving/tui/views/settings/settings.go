// Package settings provides the settings view for the TUI.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionLLM
)

const (
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// View shows the current configuration and lets the user pick an AI provider.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	invalid  error
	err      error

	section      Section
	selected     int
	focusedField int

	apiKeyInput textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	apiKeyInput := textinput.New()
	apiKeyInput.Placeholder = "Enter API key"
	apiKeyInput.EchoMode = textinput.EchoPassword
	apiKeyInput.CharLimit = 256

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		apiKeyInput:     apiKeyInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		if err != nil {
			return messages.SettingsLoaded{Err: err}
		}
		return messages.SettingsLoaded{Settings: settings, Invalid: v.settingsService.Validate()}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.invalid = msg.Invalid
		v.err = nil
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.section = SectionOverview
		v.selected = 0
		v.focusedField = 0
		v.apiKeyInput.SetValue("")
		v.apiKeyInput.Blur()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.section = SectionOverview
		v.selected = 0
		v.focusedField = 0
		v.apiKeyInput.Blur()
		return v, nil
	}

	if v.section == SectionLLM {
		return v.handleLLMKeys(msg)
	}

	switch msg.String() {
	case keyEnter, "p":
		if v.settings == nil {
			return v, nil
		}
		v.section = SectionLLM
		v.selected = v.providerIndex()
	case "r":
		return v, v.loadSettings()
	}
	return v, nil
}

func (v *View) handleLLMKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	providers := domain.AllLLMProviders()

	if v.focusedField == 1 {
		switch msg.String() {
		case keyTab, "shift+tab":
			v.focusedField = 0
			v.apiKeyInput.Blur()
			return v, nil
		case keyEnter:
			return v, v.setLLMProvider(providers[v.selected], v.apiKeyInput.Value())
		default:
			var cmd tea.Cmd
			v.apiKeyInput, cmd = v.apiKeyInput.Update(msg)
			return v, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(providers)-1 {
			v.selected++
		}
	case keyTab, keyEnter:
		v.focusedField = 1
		return v, v.apiKeyInput.Focus()
	}
	return v, nil
}

// setLLMProvider saves the provider with its default model. An empty key
// keeps the environment fallback.
func (v *View) setLLMProvider(provider domain.AIProvider, apiKey string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		model := domain.DefaultLLMModels()[provider]
		return messages.SettingsSaved{Err: v.settingsService.SetLLMProvider(provider, model, apiKey)}
	}
}

func (v *View) providerIndex() int {
	for i, p := range domain.AllLLMProviders() {
		if v.settings != nil && p == v.settings.LLM.Provider {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionLLM:
		b.WriteString(v.renderLLMSelect())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder
	s := v.settings

	llmStatus := v.styles.Warning.Render("[needs API key]")
	if s.LLM.IsConfigured() {
		llmStatus = v.styles.Success.Render("[configured]")
	}

	storage := string(s.Storage.Backend)
	if s.Storage.DataDir != "" {
		storage += " (" + s.Storage.DataDir + ")"
	}

	rows := []struct{ label, value string }{
		{"AI Provider", fmt.Sprintf("%s %s", s.LLM.Provider.Description(), llmStatus)},
		{"Extraction model", s.LLM.Model},
		{"Chat model", s.LLM.EffectiveChatModel()},
		{"Concurrency", fmt.Sprintf("%d", s.Extraction.Concurrency)},
		{"Requests/second", fmt.Sprintf("%g", s.Extraction.RequestsPerSecond)},
		{"Storage", storage},
	}
	if s.AliasesFile != "" {
		rows = append(rows, struct{ label, value string }{"Aliases file", s.AliasesFile})
	}
	if s.ServerAddr != "" {
		rows = append(rows, struct{ label, value string }{"HTTP address", s.ServerAddr})
	}
	if s.WatchDir != "" {
		rows = append(rows, struct{ label, value string }{"Watch directory", s.WatchDir})
	}

	for _, r := range rows {
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  %-18s %s", r.label+":", r.value)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.invalid != nil {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", v.invalid.Error())))
	} else {
		b.WriteString(v.styles.Success.Render("Configuration is valid"))
	}
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderLLMSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select AI Provider"))
	b.WriteString("\n\n")

	defaults := domain.DefaultLLMModels()
	for i, provider := range domain.AllLLMProviders() {
		indicator := "  "
		if i == v.selected && v.focusedField == 0 {
			indicator = "> "
		}

		current := ""
		if provider == v.settings.LLM.Provider {
			current = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, provider.Description(), current)
		if i == v.selected && v.focusedField == 0 {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s  Key env: %s",
			defaults[provider], provider.APIKeyEnv())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render("API Key:"))
	b.WriteString("\n")
	b.WriteString(v.apiKeyInput.View())
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderHelp() string {
	switch {
	case v.section == SectionOverview:
		return v.styles.Help.Render("[enter] change provider  [r] reload  [esc] back")
	case v.focusedField == 1:
		return v.styles.Help.Render("[tab] back to list  [enter] save  [esc] back")
	default:
		return v.styles.Help.Render("[j/k] navigate  [enter] API key  [esc] back")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset returns the view to the overview.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = 0
	v.err = nil
	v.apiKeyInput.SetValue("")
	v.apiKeyInput.Blur()
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}
