package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

type mockSessionService struct {
	sessions map[string]*domain.Session
	activeID string
	edits    []string
	editErr  error
}

func newMockSessionService(sessions ...*domain.Session) *mockSessionService {
	m := &mockSessionService{sessions: map[string]*domain.Session{}}
	for _, s := range sessions {
		m.sessions[s.ID] = s
		m.activeID = s.ID
	}
	return m
}

func (m *mockSessionService) Create(_ context.Context) (*domain.Session, error) {
	s := &domain.Session{ID: "fresh", Title: "Sesi baru"}
	m.sessions[s.ID] = s
	m.activeID = s.ID
	return s, nil
}

func (m *mockSessionService) SwitchTo(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	m.activeID = id
	return nil
}

func (m *mockSessionService) Delete(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sessions, id)
	if m.activeID == id {
		m.activeID = ""
	}
	return nil
}

func (m *mockSessionService) ActiveID() string { return m.activeID }

func (m *mockSessionService) Active(ctx context.Context) (*domain.Session, error) {
	if m.activeID == "" {
		return nil, domain.ErrNoActiveSession
	}
	return m.Get(ctx, m.activeID)
}

func (m *mockSessionService) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionService) List(_ context.Context) ([]domain.SessionSummary, error) {
	out := make([]domain.SessionSummary, 0, len(m.sessions))
	for _, s := range m.sessions {
		sum := s.Summary()
		sum.Active = s.ID == m.activeID
		out = append(out, sum)
	}
	return out, nil
}

func (m *mockSessionService) EditCell(_ context.Context, sessionID, fileName string, field domain.FieldKey, value string) error {
	if m.editErr != nil {
		return m.editErr
	}
	m.edits = append(m.edits, sessionID+"|"+fileName+"|"+string(field)+"|"+value)
	return nil
}

type mockAnalysisService struct {
	result  *driving.BatchResult
	err     error
	uploads []domain.Upload
}

func (m *mockAnalysisService) Analyze(_ context.Context, _ string, uploads []domain.Upload) (*driving.BatchResult, error) {
	m.uploads = uploads
	return m.result, m.err
}

type mockChatService struct {
	result   *driving.ChatResult
	err      error
	question string
}

func (m *mockChatService) Ask(_ context.Context, _, question string) (*driving.ChatResult, error) {
	m.question = question
	return m.result, m.err
}

type mockExportService struct {
	payload string
	err     error
	format  domain.ExportFormat
}

func (m *mockExportService) Table(_ context.Context, _ string) (domain.Table, error) {
	return domain.Table{}, m.err
}

func (m *mockExportService) Export(_ context.Context, _ string, format domain.ExportFormat, w io.Writer) error {
	m.format = format
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, m.payload)
	return err
}

func (m *mockExportService) Formats() []domain.ExportFormat {
	return []domain.ExportFormat{domain.ExportXLSX, domain.ExportCSV}
}

type mockSettingsService struct {
	settings    domain.AppSettings
	invalid     error
	set         map[string]string
	provider    domain.AIProvider
	model       string
	providerKey string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if key == "bogus" {
		return errors.New("unknown setting key")
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.providerKey = provider, model, apiKey
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	return nil
}

func (m *mockSettingsService) Validate() error { return m.invalid }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

// runCLI executes the root command with args and returns its output.
// Services, flag variables and command state are reset afterwards.
func runCLI(t *testing.T, svc Services, stdin string, args ...string) (string, error) {
	t.Helper()
	resetCommands(rootCmd)
	SetServices(svc)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		SetServices(Services{})
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		analyzeSession, analyzeJSON = "", false
		editSession, chatSession = "", ""
		exportFormat, exportOutput, exportSession = string(domain.ExportXLSX), "", ""
		mcpPort, mcpAddr, mcpReadOnly = 0, "", false
		resetCommands(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetCommands clears what Execute leaves behind on the command tree: a
// parsed --help flag and the context copied down from the parent.
func resetCommands(c *cobra.Command) {
	if f := c.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	c.SetContext(context.Background())
	for _, sub := range c.Commands() {
		resetCommands(sub)
	}
}

func sampleSession(t *testing.T) *domain.Session {
	t.Helper()
	r := domain.NewRecord("kebijakan.pdf")
	require.NoError(t, r.SetInitial(domain.FieldNamaAktivitas, domain.ValueCell("Rekrutmen", domain.SourceInitial)))
	require.NoError(t, r.WriteManual(domain.FieldMasaRetensi, "5 tahun"))
	require.NoError(t, r.WriteFromPatch(domain.FieldUnitKerja, "HR"))
	r.Suggestion = "Tambahkan dasar pemrosesan"
	return &domain.Session{ID: "s1", Title: "Audit HR", Records: []*domain.Record{r}}
}
