package messages

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewSessions, "sessions"},
		{ViewTable, "table"},
		{ViewChat, "chat"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestMessages_AreTeaMessages(t *testing.T) {
	// Every message must travel through tea.Cmd unchanged.
	msgs := []tea.Msg{
		ViewChanged{View: ViewTable},
		ErrorOccurred{},
		Quit{},
		SessionsLoaded{},
		SessionLoaded{},
		SessionCreated{},
		SessionSwitched{ID: "s1"},
		SessionDeleted{ID: "s1"},
		CellEdited{FileName: "a.pdf"},
		ChatAnswered{},
		SettingsLoaded{},
		SettingsSaved{},
	}
	for _, m := range msgs {
		cmd := func() tea.Msg { return m }
		assert.Equal(t, m, cmd())
	}
}
