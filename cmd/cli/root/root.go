package root

import (
	"os"

	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:   "mashup",
	Short: "Pokémon vs Digimon CLI",
	Long: `Command line client for the monster-mashup API.
Log in once; the session cookie is kept in ~/.mashup_session (MASHUP_SESSION_FILE)
and sent with every command. The API base URL comes from MASHUP_API_URL or --api.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if api, _ := cmd.Flags().GetString("api"); api != "" {
			os.Setenv("MASHUP_API_URL", api)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().String("api", "", "API base URL (default $MASHUP_API_URL or http://localhost:3000)")
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}
