package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Manage analysis sessions",
	Long: `A session holds one upload batch, its RoPA rows and the chat about them.
Exactly one session is active; analyze, edit and chat work on it.`,
	RunE: runSessionList,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recent first",
	RunE:  runSessionList,
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start an empty session and make it active",
	Args:  cobra.NoArgs,
	RunE:  runSessionNew,
}

var sessionSwitchCmd = &cobra.Command{
	Use:   "switch <id>",
	Short: "Make a session active",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionSwitch,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session's rows and transcript",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessionShow,
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionSwitchCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	summaries, err := sessionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("No sessions yet. Run 'ropa analyze <file>...' to start one.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tTITLE\tDOCS\tTURNS\tUPDATED")
	for _, s := range summaries {
		marker := ""
		if s.Active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			marker, s.ID, s.Title, s.DocumentCount, s.TurnCount, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runSessionNew(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	s, err := sessionService.Create(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	cmd.Printf("Created session %s (%s).\n", s.ID, s.Title)
	return nil
}

func runSessionSwitch(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if err := sessionService.SwitchTo(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to switch session: %w", err)
	}
	cmd.Printf("Active session: %s\n", args[0])
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if err := sessionService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	cmd.Printf("Deleted session %s.\n", args[0])
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	var (
		s   *domain.Session
		err error
	)
	if len(args) == 1 {
		s, err = sessionService.Get(cmd.Context(), args[0])
	} else {
		s, err = sessionService.Active(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	cmd.Printf("Session %s: %s\n", s.ID, s.Title)
	cmd.Printf("Updated %s\n", s.UpdatedAt.Format("2006-01-02 15:04"))

	for _, r := range s.Records {
		cmd.Printf("\n[%s]\n", r.FileName)
		for _, k := range domain.Fields {
			c := r.Cell(k)
			cmd.Printf("  %-34s %s%s\n", k.Label(), c.Display(domain.Placeholder), sourceMarker(c.Source))
		}
		if r.Suggestion != "" {
			cmd.Printf("  %-34s %s\n", "Saran AI", r.Suggestion)
		}
	}

	if len(s.Transcript) > 0 {
		cmd.Println("\nTranscript")
		for _, t := range s.Transcript {
			cmd.Printf("  [%s] %s: %s\n", t.Timestamp.Format("15:04"), t.Sender, t.Text)
		}
	}
	return nil
}

// sourceMarker tags non-initial cells in plain output.
func sourceMarker(src domain.Source) string {
	switch src {
	case domain.SourceManual:
		return "  (manual)"
	case domain.SourceAIChat:
		return "  (ai)"
	default:
		return ""
	}
}
