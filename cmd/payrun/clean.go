package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomasakiou/neco-pay/internal/domain"
	"github.com/thomasakiou/neco-pay/internal/ingest"
)

var (
	cleanIn     string
	cleanOut    string
	cleanStates string
	cleanConfig string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean a raw posting sheet into a normalized CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := ingest.DefaultConfig()
		if cleanConfig != "" {
			var err error
			cfg, err = ingest.LoadConfig(cleanConfig)
			if err != nil {
				return err
			}
		}

		data, err := os.ReadFile(cleanIn)
		if err != nil {
			return fmt.Errorf("read %s: %w", cleanIn, err)
		}

		grid, err := ingest.ReadGrid(data, cleanIn)
		if err != nil {
			return fmt.Errorf("parse %s: %w", cleanIn, err)
		}

		stateMap, err := loadStateMap(cleanStates)
		if err != nil {
			return err
		}

		result, err := ingest.Clean(grid, stateMap, cfg)
		if err != nil {
			return err
		}

		out := cleanOut
		if out == "" {
			base := strings.TrimSuffix(cleanIn, filepath.Ext(cleanIn))
			out = base + "_cleaned.csv"
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		if err := w.WriteAll(result.Grid()); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		fmt.Printf("Header row: %d (score %d)\n", result.HeaderRow, result.HeaderScore)
		fmt.Printf("Rows: %d in, %d kept\n", result.OriginalRows, result.CleanedRows)
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

// loadStateMap reads a states JSON file (same shape as testdata/states.json)
// into the lowercased state→capital lookup. An empty path yields a nil map:
// cleaning still works, the posting column just passes through unmapped.
func loadStateMap(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read states %s: %w", path, err)
	}
	var states []domain.State
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("parse states %s: %w", path, err)
	}
	m := make(map[string]string, len(states))
	for _, s := range states {
		if s.State != "" && s.Capital != "" {
			m[strings.ToLower(s.State)] = s.Capital
		}
	}
	return m, nil
}

func init() {
	cleanCmd.Flags().StringVar(&cleanIn, "in", "", "Path to the raw sheet (.xlsx, .xlsm or CSV)")
	cleanCmd.Flags().StringVar(&cleanOut, "out", "", "Output CSV path (default <in>_cleaned.csv)")
	cleanCmd.Flags().StringVar(&cleanStates, "states", "", "Path to a states JSON file for posting derivation")
	cleanCmd.Flags().StringVar(&cleanConfig, "config", "", "Path to a YAML heuristics config")
	cleanCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(cleanCmd)
}
