package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

var editSession string

var editCmd = &cobra.Command{
	Use:   "edit <file> <field> <value>",
	Short: "Overwrite one cell by hand",
	Long: `Writes value into the given document's field and marks the cell as a
manual edit. The field may be given as its key (masa_retensi) or its column
header ("Masa Retensi").`,
	Args: cobra.ExactArgs(3),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editSession, "session", "s", "", "target session (default: active)")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	fileName, value := args[0], args[2]
	field := domain.FieldKey(domain.NormaliseRawKey(args[1]))

	if err := sessionService.EditCell(cmd.Context(), editSession, fileName, field, value); err != nil {
		return fmt.Errorf("failed to edit cell: %w", err)
	}
	cmd.Printf("%s / %s = %q (manual)\n", fileName, field.Label(), value)
	return nil
}
