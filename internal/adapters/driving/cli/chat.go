package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:     "chat <question>...",
	Aliases: []string{"ask"},
	Short:   "Ask the AI about the session table",
	Long: `Sends the question together with the current table to the AI model.
The answer is added to the session transcript. When the model proposes
cell changes they are applied and marked as AI edits.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "target session (default: active)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	question := strings.Join(args, " ")
	result, err := chatService.Ask(cmd.Context(), chatSession, question)
	if result == nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(result.Turn.Text)
	if len(result.Outcomes) > 0 {
		cmd.Println()
		for _, o := range result.Outcomes {
			cmd.Printf("  • %s\n", o)
		}
	}
	if result.Turn.Failed {
		return fmt.Errorf("chat failed: %w", err)
	}
	return nil
}
