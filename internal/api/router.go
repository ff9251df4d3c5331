package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thomasakiou/neco-pay/internal/payrun"
	"github.com/thomasakiou/neco-pay/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	staffRepo *repository.StaffRepo,
	refRepo *repository.ReferenceRepo,
	postingRepo *repository.PostingRepo,
	paymentRepo *repository.PaymentRepo,
	svc *payrun.Service,
) http.Handler {
	h := &Handlers{
		staffRepo:   staffRepo,
		refRepo:     refRepo,
		postingRepo: postingRepo,
		paymentRepo: paymentRepo,
		svc:         svc,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Posting sheets.
		r.Post("/postings/upload", h.UploadPostings)
		r.Get("/postings", h.ListPostings)
		r.Get("/postings/validation", h.ValidatePostings)
		r.Delete("/postings/{id}", h.DeletePosting)
		r.Delete("/postings", h.DeleteAllPostings)

		// Reference data.
		r.Get("/staff", h.ListStaff)
		r.Post("/staff", h.CreateStaff)
		r.Delete("/staff/{id}", h.DeleteStaff)
		r.Get("/distances", h.ListDistances)
		r.Post("/distances", h.CreateDistance)
		r.Get("/parameters", h.ListParameters)
		r.Post("/parameters", h.CreateParameter)
		r.Get("/states", h.ListStates)
		r.Post("/states", h.CreateState)

		// Payments.
		r.Post("/payments/generate", h.GeneratePayments)
		r.Get("/payments", h.ListPayments)
		r.Get("/payments/export", h.ExportPayments)
		r.Delete("/payments/{id}", h.DeletePayment)
		r.Delete("/payments", h.DeleteAllPayments)

		// Dashboard.
		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}
