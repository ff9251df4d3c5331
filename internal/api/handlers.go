package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thomasakiou/neco-pay/internal/domain"
	"github.com/thomasakiou/neco-pay/internal/ingest"
	"github.com/thomasakiou/neco-pay/internal/payrun"
	"github.com/thomasakiou/neco-pay/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	staffRepo   *repository.StaffRepo
	refRepo     *repository.ReferenceRepo
	postingRepo *repository.PostingRepo
	paymentRepo *repository.PaymentRepo
	svc         *payrun.Service
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses. All
// three are caller-correctable input defects, never retried server-side.
func writeEngineError(w http.ResponseWriter, err error) {
	var emptyErr *ingest.EmptyInputError
	var colsErr *ingest.MissingRequiredColumnsError
	var paramsErr *payrun.InvalidBatchParametersError

	switch {
	case errors.As(err, &paramsErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &emptyErr), errors.As(err, &colsErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// --- posting sheets ---

func (h *Handlers) UploadPostings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "read file: "+err.Error())
		return
	}

	result, err := h.svc.IngestSheet(data, header.Filename)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) ListPostings(w http.ResponseWriter, r *http.Request) {
	postings, err := h.postingRepo.ListActive()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"postings": postings,
		"total":    len(postings),
	})
}

func (h *Handlers) ValidatePostings(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.ValidatePostings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) DeletePosting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.postingRepo.DeleteByID(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handlers) DeleteAllPostings(w http.ResponseWriter, r *http.Request) {
	if err := h.postingRepo.DeleteAll(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- reference data ---

func (h *Handlers) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staffRepo.ListActive()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staff": staff, "total": len(staff)})
}

func (h *Handlers) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var s domain.Staff
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if strings.TrimSpace(s.StaffID) == "" {
		writeError(w, http.StatusBadRequest, "staff_id is required")
		return
	}
	s.Active = true
	id, err := h.staffRepo.Insert(&s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.ID = id
	writeJSON(w, http.StatusCreated, s)
}

func (h *Handlers) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.staffRepo.DeleteByID(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handlers) ListDistances(w http.ResponseWriter, r *http.Request) {
	distances, err := h.refRepo.ListDistances()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"distances": distances, "total": len(distances)})
}

func (h *Handlers) CreateDistance(w http.ResponseWriter, r *http.Request) {
	var d domain.Distance
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if d.Source == "" || d.Target == "" {
		writeError(w, http.StatusBadRequest, "source and target are required")
		return
	}
	d.Active = true
	id, err := h.refRepo.InsertDistance(&d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	d.ID = id
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handlers) ListParameters(w http.ResponseWriter, r *http.Request) {
	params, err := h.refRepo.ListParameters()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"parameters": params, "total": len(params)})
}

func (h *Handlers) CreateParameter(w http.ResponseWriter, r *http.Request) {
	var p domain.Parameter
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if strings.TrimSpace(p.Contiss) == "" {
		writeError(w, http.StatusBadRequest, "contiss is required")
		return
	}
	p.Active = true
	id, err := h.refRepo.InsertParameter(&p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	p.ID = id
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) ListStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.refRepo.ListStates()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"states": states, "total": len(states)})
}

func (h *Handlers) CreateState(w http.ResponseWriter, r *http.Request) {
	var s domain.State
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if s.State == "" || s.Capital == "" {
		writeError(w, http.StatusBadRequest, "state and capital are required")
		return
	}
	s.Active = true
	id, err := h.refRepo.InsertState(&s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.ID = id
	writeJSON(w, http.StatusCreated, s)
}

// --- payments ---

func (h *Handlers) GeneratePayments(w http.ResponseWriter, r *http.Request) {
	var params payrun.BatchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	result, err := h.svc.GeneratePayments(params)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	var payments []domain.Payment
	var err error
	if runID := r.URL.Query().Get("run_id"); runID != "" {
		payments, err = h.paymentRepo.ListByRun(runID)
	} else {
		payments, err = h.paymentRepo.List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": payments, "total": len(payments)})
}

func (h *Handlers) ExportPayments(w http.ResponseWriter, r *http.Request) {
	fileName := fmt.Sprintf("payments_%s.csv", time.Now().Format("2006-01-02_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)

	if err := h.svc.ExportCSV(w, r.URL.Query().Get("run_id")); err != nil {
		// Headers are already out; log and truncate.
		log.Printf("[api] export failed: %v", err)
	}
}

func (h *Handlers) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.paymentRepo.DeleteByID(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handlers) DeleteAllPayments(w http.ResponseWriter, r *http.Request) {
	if err := h.paymentRepo.DeleteAll(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- dashboard ---

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	staffCount, err := h.staffRepo.Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	postingCount, err := h.postingRepo.Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	paymentCount, err := h.paymentRepo.Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"staff":    staffCount,
		"postings": postingCount,
		"payments": paymentCount,
	})
}
