// Package table provides the RoPA table view for the TUI.
//
// Rows are documents and columns are the canonical fields. Each cell is
// coloured by its provenance; the cursor cell can be edited in place, which
// records a manual edit.
package table

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

const (
	fileColWidth = 20
	cellWidth    = 18
)

// View shows the active session as a table.
type View struct {
	styles         *styles.Styles
	keymap         *keymap.KeyMap
	statusbar      *status.Bar
	input          *input.TextInput
	sessionService driving.SessionService

	session   *domain.Session
	row       int
	col       int
	colOffset int
	editing   bool

	width   int
	height  int
	ready   bool
	loading bool
	err     error
}

// NewView creates a new table view.
func NewView(s *styles.Styles, sessionService driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	in := input.NewTextInput(s, "Edit", "new value")
	in.Blur()

	bar := status.NewBar(s, km)
	bar.SetBindings(km.TableHelp())
	bar.ShowLegend(true)

	return &View{
		styles:         s,
		keymap:         km,
		statusbar:      bar,
		input:          in,
		sessionService: sessionService,
		width:          80,
		height:         24,
	}
}

// Init loads the active session.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.Load()
}

// Load returns a command that reads the active session.
func (v *View) Load() tea.Cmd {
	return func() tea.Msg {
		if v.sessionService == nil {
			return messages.SessionLoaded{Err: fmt.Errorf("session service not available")}
		}
		s, err := v.sessionService.Active(context.Background())
		return messages.SessionLoaded{Session: s, Err: err}
	}
}

// Update handles messages for the table view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.SessionLoaded:
		v.loading = false
		v.setSession(msg.Session, msg.Err)
		return v, nil

	case messages.CellEdited:
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(fmt.Sprintf("Saved %s", msg.Field.Label()))
		return v, v.Load()
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) setSession(s *domain.Session, err error) {
	if err != nil {
		v.session = nil
		if errors.Is(err, domain.ErrNoActiveSession) {
			v.err = nil
			return
		}
		v.err = err
		return
	}
	v.session = s
	v.err = nil
	if v.row >= len(s.Records) {
		v.row = max(len(s.Records)-1, 0)
	}
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.row > 0 {
			v.row--
		}
	case "down", "j":
		if v.session != nil && v.row < len(v.session.Records)-1 {
			v.row++
		}
	case "left", "h":
		if v.col > 0 {
			v.col--
		}
	case "right", "l":
		if v.col < len(domain.Fields)-1 {
			v.col++
		}
	case "home", "0":
		v.col = 0
	case "end", "$":
		v.col = len(domain.Fields) - 1
	case "e", "enter":
		return v, v.startEdit()
	case "c":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	case "r":
		v.loading = true
		return v, v.Load()
	}
	v.scrollToCursor()
	return v, nil
}

func (v *View) startEdit() tea.Cmd {
	record, ok := v.currentRecord()
	if !ok {
		return nil
	}
	field := domain.Fields[v.col]
	cell := record.Cell(field)

	v.editing = true
	v.input.SetLabel(field.Label())
	v.input.Reset()
	if cell.Present {
		v.input.SetValue(cell.Value)
	}
	v.statusbar.SetState(status.StateEditing)
	v.statusbar.SetBindings(v.keymap.EditHelp())
	return v.input.Focus()
}

func (v *View) stopEdit() {
	v.editing = false
	v.input.Blur()
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	v.statusbar.SetBindings(v.keymap.TableHelp())
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only submit and cancel are special while editing
	switch msg.Type {
	case tea.KeyEsc:
		v.stopEdit()
		return v, nil
	case tea.KeyEnter:
		record, ok := v.currentRecord()
		if !ok {
			v.stopEdit()
			return v, nil
		}
		field := domain.Fields[v.col]
		value := v.input.Value()
		sessionID := v.session.ID
		fileName := record.FileName
		v.stopEdit()
		return v, func() tea.Msg {
			err := v.sessionService.EditCell(context.Background(), sessionID, fileName, field, value)
			return messages.CellEdited{FileName: fileName, Field: field, Err: err}
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) currentRecord() (*domain.Record, bool) {
	if v.session == nil || v.row < 0 || v.row >= len(v.session.Records) {
		return nil, false
	}
	return v.session.Records[v.row], true
}

// visibleColumns is how many field columns fit beside the file column.
func (v *View) visibleColumns() int {
	n := (v.width - fileColWidth - 1) / (cellWidth + 1)
	if n < 1 {
		n = 1
	}
	return n
}

func (v *View) scrollToCursor() {
	visible := v.visibleColumns()
	if v.col < v.colOffset {
		v.colOffset = v.col
	}
	if v.col >= v.colOffset+visible {
		v.colOffset = v.col - visible + 1
	}
}

// View renders the table view.
func (v *View) View() string {
	var b strings.Builder

	title := "Table"
	if v.session != nil {
		title += ": " + v.session.Title
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case v.session == nil:
		b.WriteString(v.styles.Muted.Render("No active session. Run 'ropa analyze <file>...' or pick one under Sessions."))
	case len(v.session.Records) == 0:
		b.WriteString(v.styles.Muted.Render("This session has no analysed documents yet."))
	default:
		b.WriteString(v.renderGrid())
		b.WriteString("\n")
		b.WriteString(v.renderDetail())
	}
	b.WriteString("\n\n")

	if v.editing {
		b.WriteString(v.input.View())
		b.WriteString("\n")
	}
	v.statusbar.SetWidth(v.width)
	v.statusbar.SetCellSource(nil)
	if record, ok := v.currentRecord(); ok {
		src := record.Cell(domain.Fields[v.col]).Source
		v.statusbar.SetCellSource(&src)
	}
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderGrid() string {
	visible := v.visibleColumns()
	end := min(v.colOffset+visible, len(domain.Fields))
	fields := domain.Fields[v.colOffset:end]

	var b strings.Builder

	header := []string{v.styles.Subtitle.Render(fit(domain.FileNameHeader, fileColWidth))}
	for _, k := range fields {
		header = append(header, v.styles.Subtitle.Render(fit(k.Label(), cellWidth)))
	}
	b.WriteString(strings.Join(header, " "))
	b.WriteString("\n")

	for r, record := range v.session.Records {
		line := []string{v.styles.Normal.Render(fit(record.FileName, fileColWidth))}
		for i, k := range fields {
			cell := record.Cell(k)
			style := v.styles.ForSource(cell.Source)
			if r == v.row && v.colOffset+i == v.col {
				style = style.Inherit(v.styles.CellSelected)
			}
			line = append(line, style.Render(fit(cell.Display(domain.Placeholder), cellWidth)))
		}
		b.WriteString(strings.Join(line, " "))
		b.WriteString("\n")
	}

	if v.colOffset > 0 || end < len(domain.Fields) {
		b.WriteString(v.styles.Muted.Render(
			fmt.Sprintf("columns %d-%d of %d", v.colOffset+1, end, len(domain.Fields))))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderDetail() string {
	record, ok := v.currentRecord()
	if !ok {
		return ""
	}
	field := domain.Fields[v.col]
	cell := record.Cell(field)

	heading := fmt.Sprintf("%s / %s [%s]", record.FileName, field.Label(), cell.Source)
	body := lipgloss.NewStyle().Width(max(v.width-4, 20)).
		Render(v.styles.ForSource(cell.Source).Render(cell.Display(domain.Placeholder)))

	out := v.styles.Subtitle.Render(heading) + "\n" + body
	if record.Suggestion != "" {
		out += "\n" + v.styles.Muted.Render("Saran AI: "+record.Suggestion)
	}
	return out
}

// fit truncates or pads s to exactly w runes.
func fit(s string, w int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) > w {
		return string(r[:w-1]) + "…"
	}
	return s + strings.Repeat(" ", w-len(r))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.scrollToCursor()
}

// Session returns the displayed session.
func (v *View) Session() *domain.Session {
	return v.session
}

// Cursor returns the selected row and field.
func (v *View) Cursor() (int, domain.FieldKey) {
	return v.row, domain.Fields[v.col]
}

// Editing reports whether the edit input is open.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
