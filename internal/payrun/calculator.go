// Package payrun computes finalized payment records from resolved postings
// and serializes a run for download or persistence.
package payrun

import (
	"fmt"

	"github.com/thomasakiou/neco-pay/internal/domain"
	"github.com/thomasakiou/neco-pay/internal/resolve"
)

// BatchParams are supplied once per run, not per record.
type BatchParams struct {
	PaymentTitle string  `json:"payment_title"`
	LocalRuns    float64 `json:"local_runs"`
	NumbOfNights int     `json:"numb_of_nights"`
}

// InvalidBatchParametersError rejects a run before any record is computed.
type InvalidBatchParametersError struct {
	Reason string
}

func (e *InvalidBatchParametersError) Error() string {
	return "invalid batch parameters: " + e.Reason
}

// Validate checks the fail-fast preconditions for a run.
func (p BatchParams) Validate() error {
	if p.PaymentTitle == "" {
		return &InvalidBatchParametersError{Reason: "payment title is required"}
	}
	if p.NumbOfNights <= 0 {
		return &InvalidBatchParametersError{Reason: fmt.Sprintf("number of nights must be at least 1, got %d", p.NumbOfNights)}
	}
	if p.LocalRuns < 0 {
		return &InvalidBatchParametersError{Reason: fmt.Sprintf("local runs must not be negative, got %g", p.LocalRuns)}
	}
	return nil
}

// Stats counts resolution misses across a run. Misses are expected and do not
// fail the run; the counts exist so operators can audit unmatched records.
type Stats struct {
	Records         int `json:"records"`
	StaffMisses     int `json:"staff_misses"`
	DistanceMisses  int `json:"distance_misses"`
	ParameterMisses int `json:"parameter_misses"`
}

// Compute derives one payment from a posting and its resolution. All
// arithmetic is plain float64 with no rounding; rounding is a presentation
// concern.
func Compute(p domain.Posting, res resolve.Resolution, params BatchParams) domain.Payment {
	transport := res.Distance * res.Kilometer
	dta := res.PerNight * float64(params.NumbOfNights)

	return domain.Payment{
		FileNo:         p.FileNo,
		Name:           p.Name,
		Conraiss:       p.Conraiss,
		Station:        p.Station,
		Posting:        p.Posting,
		Bank:           res.BankName,
		AccountNo:      res.AccountNo,
		Transport:      transport,
		LocalRuns:      params.LocalRuns,
		NumbOfNights:   params.NumbOfNights,
		AmountPerNight: res.PerNight,
		DTA:            dta,
		Netpay:         transport + dta + params.LocalRuns,
		PaymentTitle:   params.PaymentTitle,
	}
}

// ComputeBatch resolves and computes every posting in order. Exactly one
// payment is produced per posting: failed lookups degrade to zero/empty
// values and never drop the record.
func ComputeBatch(postings []domain.Posting, resolver *resolve.Resolver, params BatchParams) ([]domain.Payment, Stats, error) {
	if err := params.Validate(); err != nil {
		return nil, Stats{}, err
	}

	payments := make([]domain.Payment, 0, len(postings))
	stats := Stats{Records: len(postings)}

	for _, p := range postings {
		res := resolver.Resolve(p)
		if !res.StaffFound {
			stats.StaffMisses++
		}
		if !res.DistanceFound {
			stats.DistanceMisses++
		}
		if !res.ParameterFound {
			stats.ParameterMisses++
		}
		payments = append(payments, Compute(p, res, params))
	}

	return payments, stats, nil
}
