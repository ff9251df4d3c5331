package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thomasakiou/neco-pay/internal/domain"
	"github.com/thomasakiou/neco-pay/internal/ingest"
	"github.com/thomasakiou/neco-pay/internal/payrun"
	"github.com/thomasakiou/neco-pay/internal/repository"
	"github.com/thomasakiou/neco-pay/internal/resolve"
)

var (
	genIn        string
	genOut       string
	genDB        string
	genTitle     string
	genNights    int
	genLocalRuns float64
	genConfig    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compute a payment run and write it as CSV",
	Long: `generate resolves a posting batch against the staff, distance and
parameter tables in the SQLite database and writes one payment row per
posting. The batch comes from --in (a raw or cleaned sheet) or, when --in is
omitted, from the postings stored in the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := payrun.BatchParams{
			PaymentTitle: genTitle,
			LocalRuns:    genLocalRuns,
			NumbOfNights: genNights,
		}
		if err := params.Validate(); err != nil {
			return err
		}

		db, err := repository.InitDB(genDB)
		if err != nil {
			return err
		}
		defer db.Close()

		staffRepo := repository.NewStaffRepo(db)
		refRepo := repository.NewReferenceRepo(db)
		postingRepo := repository.NewPostingRepo(db)

		postings, err := loadPostings(postingRepo, refRepo)
		if err != nil {
			return err
		}

		staff, err := staffRepo.ListActive()
		if err != nil {
			return fmt.Errorf("load staff: %w", err)
		}
		distances, err := refRepo.ListDistances()
		if err != nil {
			return fmt.Errorf("load distances: %w", err)
		}
		parameters, err := refRepo.ListParameters()
		if err != nil {
			return fmt.Errorf("load parameters: %w", err)
		}

		resolver := resolve.NewResolver(staff, distances, parameters)
		payments, stats, err := payrun.ComputeBatch(postings, resolver, params)
		if err != nil {
			return err
		}

		out := genOut
		if out == "" {
			title := strings.ReplaceAll(genTitle, " ", "_")
			out = fmt.Sprintf("Payment_%s_%s.csv", title, time.Now().Format("2006-01-02T15-04-05"))
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()

		if err := payrun.WriteCSV(f, payments); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		fmt.Printf("Computed %d payments\n", stats.Records)
		fmt.Printf("Unresolved: staff=%d distance=%d parameter=%d\n",
			stats.StaffMisses, stats.DistanceMisses, stats.ParameterMisses)
		if amb := resolver.AmbiguousSuffixes(); len(amb) > 0 {
			fmt.Printf("Ambiguous parameter suffixes (first row wins): %s\n", strings.Join(amb, ", "))
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

// loadPostings reads the batch either from the --in sheet (run through the
// full cleaning pipeline, with the state map taken from the database) or from
// the postings table.
func loadPostings(postingRepo *repository.PostingRepo, refRepo *repository.ReferenceRepo) ([]domain.Posting, error) {
	if genIn == "" {
		postings, err := postingRepo.ListActive()
		if err != nil {
			return nil, fmt.Errorf("load postings: %w", err)
		}
		if len(postings) == 0 {
			return nil, fmt.Errorf("no postings in database: upload a sheet or pass --in")
		}
		return postings, nil
	}

	cfg := ingest.DefaultConfig()
	if genConfig != "" {
		var err error
		cfg, err = ingest.LoadConfig(genConfig)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(genIn)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", genIn, err)
	}
	grid, err := ingest.ReadGrid(data, genIn)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", genIn, err)
	}
	stateMap, err := refRepo.StateCapitalMap()
	if err != nil {
		return nil, fmt.Errorf("load states: %w", err)
	}

	result, err := ingest.Clean(grid, stateMap, cfg)
	if err != nil {
		return nil, err
	}
	return result.Postings, nil
}

func init() {
	generateCmd.Flags().StringVar(&genIn, "in", "", "Posting sheet to process (default: stored postings)")
	generateCmd.Flags().StringVar(&genOut, "out", "", "Output CSV path (default Payment_<title>_<timestamp>.csv)")
	generateCmd.Flags().StringVar(&genDB, "db", "necopay.db", "Path to the reference SQLite database")
	generateCmd.Flags().StringVar(&genTitle, "title", "", "Payment title for the run")
	generateCmd.Flags().IntVar(&genNights, "nights", 0, "Number of nights")
	generateCmd.Flags().Float64Var(&genLocalRuns, "local-runs", 0, "Flat local runs allowance per record")
	generateCmd.Flags().StringVar(&genConfig, "config", "", "Path to a YAML heuristics config (used with --in)")
	generateCmd.MarkFlagRequired("title")
	generateCmd.MarkFlagRequired("nights")
	rootCmd.AddCommand(generateCmd)
}
