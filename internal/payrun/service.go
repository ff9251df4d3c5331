package payrun

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/thomasakiou/neco-pay/internal/domain"
	"github.com/thomasakiou/neco-pay/internal/ingest"
	"github.com/thomasakiou/neco-pay/internal/repository"
	"github.com/thomasakiou/neco-pay/internal/resolve"
)

// IngestResult is returned from a successful sheet upload.
type IngestResult struct {
	UploadID        string `json:"upload_id"`
	HeaderRow       int    `json:"header_row"`
	OriginalRows    int    `json:"original_rows"`
	CleanedRows     int    `json:"cleaned_rows"`
	RecordsStored   int    `json:"records_stored"`
	AlreadyIngested bool   `json:"already_ingested"`
}

// RunResult summarises one payment generation run.
type RunResult struct {
	RunID             string   `json:"run_id"`
	Stats             Stats    `json:"stats"`
	AmbiguousSuffixes []string `json:"ambiguous_suffixes,omitempty"`
}

// ValidationSummary reports how many stored postings resolve against the
// staff master, so operators can audit a sheet before generating payments.
type ValidationSummary struct {
	Total          int      `json:"total"`
	Matched        int      `json:"matched"`
	Missing        int      `json:"missing"`
	MissingFileNos []string `json:"missing_file_nos,omitempty"`
}

// Service ties the engine to the persistence layer: upload a sheet, generate
// a run, export it.
type Service struct {
	postingRepo *repository.PostingRepo
	staffRepo   *repository.StaffRepo
	refRepo     *repository.ReferenceRepo
	paymentRepo *repository.PaymentRepo
	cfg         ingest.Config
}

func NewService(
	postingRepo *repository.PostingRepo,
	staffRepo *repository.StaffRepo,
	refRepo *repository.ReferenceRepo,
	paymentRepo *repository.PaymentRepo,
	cfg ingest.Config,
) *Service {
	return &Service{
		postingRepo: postingRepo,
		staffRepo:   staffRepo,
		refRepo:     refRepo,
		paymentRepo: paymentRepo,
		cfg:         cfg,
	}
}

// IngestSheet cleans a raw posting sheet and stores the surviving records.
// Re-uploading a byte-identical sheet is a no-op (hash check).
func (s *Service) IngestSheet(data []byte, fileName string) (*IngestResult, error) {
	hash := fmt.Sprintf("%x", sha256.Sum256(data))
	exists, err := s.postingRepo.UploadExistsByHash(hash)
	if err != nil {
		return nil, fmt.Errorf("check hash: %w", err)
	}
	if exists {
		return &IngestResult{AlreadyIngested: true}, nil
	}

	grid, err := ingest.ReadGrid(data, fileName)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}

	stateMap, err := s.refRepo.StateCapitalMap()
	if err != nil {
		return nil, fmt.Errorf("load states: %w", err)
	}

	result, err := ingest.Clean(grid, stateMap, s.cfg)
	if err != nil {
		return nil, err
	}

	stored, err := s.postingRepo.BulkInsert(result.Postings)
	if err != nil {
		return nil, fmt.Errorf("store postings: %w", err)
	}

	upload := &domain.PostingUpload{
		ID:           uuid.NewString(),
		FileName:     fileName,
		FileHash:     hash,
		HeaderRow:    result.HeaderRow,
		OriginalRows: result.OriginalRows,
		CleanedRows:  result.CleanedRows,
		UploadedAt:   time.Now(),
	}
	if err := s.postingRepo.InsertUpload(upload); err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}

	log.Printf("[payrun] ingested %s: %d rows in, %d stored", fileName, result.OriginalRows, stored)

	return &IngestResult{
		UploadID:      upload.ID,
		HeaderRow:     result.HeaderRow,
		OriginalRows:  result.OriginalRows,
		CleanedRows:   result.CleanedRows,
		RecordsStored: stored,
	}, nil
}

// GeneratePayments fetches all reference data once, resolves every stored
// posting and persists one payment per posting under a fresh run ID.
func (s *Service) GeneratePayments(params BatchParams) (*RunResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	postings, err := s.postingRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("load postings: %w", err)
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("no postings to process: upload a sheet first")
	}

	staff, err := s.staffRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	distances, err := s.refRepo.ListDistances()
	if err != nil {
		return nil, fmt.Errorf("load distances: %w", err)
	}
	parameters, err := s.refRepo.ListParameters()
	if err != nil {
		return nil, fmt.Errorf("load parameters: %w", err)
	}

	resolver := resolve.NewResolver(staff, distances, parameters)

	payments, stats, err := ComputeBatch(postings, resolver, params)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	for i := range payments {
		payments[i].RunID = runID
	}

	if _, err := s.paymentRepo.BulkInsert(payments); err != nil {
		return nil, fmt.Errorf("store payments: %w", err)
	}

	log.Printf("[payrun] run %s: %d payments; unresolved staff=%d distance=%d parameter=%d",
		runID, stats.Records, stats.StaffMisses, stats.DistanceMisses, stats.ParameterMisses)

	return &RunResult{
		RunID:             runID,
		Stats:             stats,
		AmbiguousSuffixes: resolver.AmbiguousSuffixes(),
	}, nil
}

// ValidatePostings checks every stored posting against the staff master and
// reports the unmatched file numbers.
func (s *Service) ValidatePostings() (*ValidationSummary, error) {
	postings, err := s.postingRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("load postings: %w", err)
	}
	staff, err := s.staffRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}

	resolver := resolve.NewResolver(staff, nil, nil)

	summary := &ValidationSummary{Total: len(postings)}
	for _, p := range postings {
		if resolver.Resolve(p).StaffFound {
			summary.Matched++
			continue
		}
		summary.Missing++
		summary.MissingFileNos = append(summary.MissingFileNos, p.FileNo)
	}
	return summary, nil
}

// ExportCSV writes every stored payment (or just one run when runID is
// non-empty) as the fixed-order delimited table.
func (s *Service) ExportCSV(w io.Writer, runID string) error {
	var payments []domain.Payment
	var err error
	if runID != "" {
		payments, err = s.paymentRepo.ListByRun(runID)
	} else {
		payments, err = s.paymentRepo.List()
	}
	if err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	return WriteCSV(w, payments)
}
