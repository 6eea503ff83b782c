package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crucial707/monster-mashup/cmd/cli/client"
	"github.com/crucial707/monster-mashup/cmd/cli/output"
)

// pokemonStats lists PokéAPI stat names in display order.
var pokemonStats = []struct{ key, label string }{
	{"hp", "HP"},
	{"attack", "Attack"},
	{"defense", "Defense"},
	{"special-attack", "Sp. Attack"},
	{"special-defense", "Sp. Defense"},
	{"speed", "Speed"},
}

// ==========================
// Init Search
// ==========================
func InitSearch(rootCmd *cobra.Command) {
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Look up a Pokémon or a Digimon",
	}
	searchCmd.AddCommand(pokemonCmd(), digimonCmd())
	rootCmd.AddCommand(searchCmd, compareCmd())
}

func fetch(ctx context.Context, kind, name string) ([]byte, error) {
	path := "/api/search/" + kind + "?" + url.Values{"name": {name}}.Encode()
	data, err := client.New().Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, name, err)
	}
	return data, nil
}

// ==========================
// POKEMON
// ==========================
func pokemonCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "pokemon <name>",
		Short: "Look up a Pokémon by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := fetch(cmd.Context(), "pokemon", strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), data)
			}
			p, err := ParsePokemon(data)
			if err != nil {
				return fmt.Errorf("unexpected pokemon payload: %w", err)
			}
			renderPokemon(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw upstream payload")
	return cmd
}

func renderPokemon(out io.Writer, p PokemonSummary) {
	rows := [][]interface{}{
		{"Name", p.Name},
		{"ID", p.ID},
		{"Types", join(p.Types)},
	}
	for _, st := range pokemonStats {
		rows = append(rows, []interface{}{st.label, p.Stats[st.key]})
	}
	rows = append(rows,
		[]interface{}{"Height", fmt.Sprintf("%.1f m", float64(p.Height)/10)},
		[]interface{}{"Weight", fmt.Sprintf("%.1f kg", float64(p.Weight)/10)},
		[]interface{}{"Sprite", p.Sprite},
	)
	output.RenderTable(out, []string{"Pokémon", ""}, rows)
}

// ==========================
// DIGIMON
// ==========================
func digimonCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "digimon <name>",
		Short: "Look up a Digimon by name (first match wins)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := fetch(cmd.Context(), "digimon", strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), data)
			}
			d, err := ParseDigimon(data)
			if err != nil {
				return fmt.Errorf("unexpected digimon payload: %w", err)
			}
			renderDigimon(cmd.OutOrStdout(), d)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw upstream payload")
	return cmd
}

func renderDigimon(out io.Writer, d DigimonSummary) {
	output.RenderTable(out, []string{"Digimon", ""}, [][]interface{}{
		{"Name", d.Name},
		{"ID", d.ID},
		{"Levels", join(d.Levels)},
		{"Attributes", join(d.Attributes)},
		{"Types", join(d.Types)},
		{"Image", d.Image},
	})
}

// ==========================
// COMPARE
// ==========================
func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <pokemon> <digimon>",
		Short: "Show a Pokémon and a Digimon side by side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pData, err := fetch(cmd.Context(), "pokemon", args[0])
			if err != nil {
				return err
			}
			dData, err := fetch(cmd.Context(), "digimon", args[1])
			if err != nil {
				return err
			}
			p, err := ParsePokemon(pData)
			if err != nil {
				return fmt.Errorf("unexpected pokemon payload: %w", err)
			}
			d, err := ParseDigimon(dData)
			if err != nil {
				return fmt.Errorf("unexpected digimon payload: %w", err)
			}
			renderCompare(cmd.OutOrStdout(), p, d)
			return nil
		},
	}
}

func renderCompare(out io.Writer, p PokemonSummary, d DigimonSummary) {
	rows := [][]interface{}{
		{"Name", p.Name, d.Name},
		{"ID", p.ID, d.ID},
		{"Types", join(p.Types), join(d.Types)},
		{"Level", "-", join(d.Levels)},
		{"Attribute", "-", join(d.Attributes)},
	}
	for _, st := range pokemonStats {
		rows = append(rows, []interface{}{st.label, p.Stats[st.key], "-"})
	}
	rows = append(rows, []interface{}{"Image", p.Sprite, d.Image})
	output.RenderTable(out, []string{"", "Pokémon", "Digimon"}, rows)
}
