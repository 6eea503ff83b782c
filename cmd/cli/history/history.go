package history

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crucial707/monster-mashup/cmd/cli/client"
	"github.com/crucial707/monster-mashup/cmd/cli/output"
	"github.com/crucial707/monster-mashup/internal/models"
)

// InitHistory registers the history command.
func InitHistory(rootCmd *cobra.Command) {
	rootCmd.AddCommand(historyCmd())
}

func historyCmd() *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your most recent searches (up to 10)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/history"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}
			var entries []models.SearchHistoryEntry
			if err := client.New().JSON(cmd.Context(), http.MethodGet, path, nil, &entries); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No searches yet.")
				return nil
			}
			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Kind(), e.Term()})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"When", "Kind", "Name"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries (1-10)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
