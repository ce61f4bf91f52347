package column

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/models"
)

// ColumnCmd returns the column parent command
func ColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage board columns",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

// Result is what column commands print
type Result struct {
	models.Column
	// Tasks removed along with a deleted column
	RemovedTasks int `json:"removedTasks,omitempty"`

	verb string
}

// GetID returns the column ID for quiet mode
func (r Result) GetID() string { return r.ID }

// Describe renders the confirmation for human output
func (r Result) Describe() string {
	msg := styles.Success(fmt.Sprintf("Column '%s' %s", styles.ColoredText(r.DisplayTitle, r.Color), r.verb))
	msg += "\n  ID: " + r.ID
	if r.RemovedTasks > 0 {
		msg += fmt.Sprintf("\n  Tasks removed: %d", r.RemovedTasks)
	}
	return msg
}
