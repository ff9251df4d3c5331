package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/thomasakiou/neco-pay/internal/api"
	"github.com/thomasakiou/neco-pay/internal/domain"
	"github.com/thomasakiou/neco-pay/internal/ingest"
	"github.com/thomasakiou/neco-pay/internal/payrun"
	"github.com/thomasakiou/neco-pay/internal/repository"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "necopay.db"
	}

	log.Printf("Initializing database at %s", dbPath)
	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	// Create repositories.
	staffRepo := repository.NewStaffRepo(db)
	refRepo := repository.NewReferenceRepo(db)
	postingRepo := repository.NewPostingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	// Ingest heuristics: defaults unless INGEST_CONFIG points at a YAML file.
	cfg := ingest.DefaultConfig()
	if path := os.Getenv("INGEST_CONFIG"); path != "" {
		cfg, err = ingest.LoadConfig(path)
		if err != nil {
			log.Fatalf("Failed to load ingest config %s: %v", path, err)
		}
		log.Printf("Loaded ingest heuristics from %s", path)
	}

	svc := payrun.NewService(postingRepo, staffRepo, refRepo, paymentRepo, cfg)

	// Seed states if the table is empty.
	count, err := refRepo.CountStates()
	if err != nil {
		log.Fatalf("Failed to count states: %v", err)
	}
	if count == 0 {
		log.Println("States table is empty, seeding from testdata...")
		if err := seedStates(refRepo); err != nil {
			log.Printf("WARNING: Failed to seed states: %v", err)
		}
	} else {
		log.Printf("States table already has %d rows, skipping seed", count)
	}

	// Create router.
	router := api.NewRouter(staffRepo, refRepo, postingRepo, paymentRepo, svc)

	log.Printf("NECO Posting Payment Manager")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("API base: http://localhost:%s/api/v1", port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /api/v1/postings/upload")
	log.Printf("  GET    /api/v1/postings")
	log.Printf("  GET    /api/v1/postings/validation")
	log.Printf("  GET    /api/v1/staff")
	log.Printf("  GET    /api/v1/distances")
	log.Printf("  GET    /api/v1/parameters")
	log.Printf("  GET    /api/v1/states")
	log.Printf("  POST   /api/v1/payments/generate")
	log.Printf("  GET    /api/v1/payments")
	log.Printf("  GET    /api/v1/payments/export")
	log.Printf("  GET    /api/v1/dashboard")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func seedStates(repo *repository.ReferenceRepo) error {
	// Try multiple possible locations for testdata.
	candidates := []string{
		"testdata/states.json",
		filepath.Join(".", "testdata", "states.json"),
	}

	// Also try to find relative to the executable.
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "testdata", "states.json"),
			filepath.Join(dir, "..", "..", "testdata", "states.json"),
		)
	}

	var data []byte
	var loadErr error
	for _, path := range candidates {
		data, loadErr = os.ReadFile(path)
		if loadErr == nil {
			log.Printf("Loaded states from %s", path)
			break
		}
	}
	if loadErr != nil {
		return fmt.Errorf("could not find states.json in any candidate path: %w", loadErr)
	}

	var states []domain.State
	if err := json.Unmarshal(data, &states); err != nil {
		return fmt.Errorf("unmarshal states: %w", err)
	}
	for i := range states {
		states[i].Active = true
	}

	inserted, err := repo.BulkInsertStates(states)
	if err != nil {
		return fmt.Errorf("bulk insert: %w", err)
	}

	log.Printf("Seeded %d states (out of %d in file)", inserted, len(states))
	return nil
}
