package domain

import "time"

// Payment is the computed payout for one posting in a payment run.
//
//	Transport = distance × kilometer rate
//	DTA       = amount per night × number of nights
//	Netpay    = Transport + DTA + LocalRuns
//
// Unresolved lookups leave the corresponding fields zero/empty; a payment is
// still produced for every posting in the run.
type Payment struct {
	ID             int64     `json:"id"`
	RunID          string    `json:"run_id,omitempty"`
	FileNo         string    `json:"file_no"`
	Name           string    `json:"name"`
	Conraiss       string    `json:"conraiss"`
	Station        string    `json:"station"`
	Posting        string    `json:"posting"`
	Bank           string    `json:"bank"`
	AccountNo      string    `json:"account_no"`
	Transport      float64   `json:"transport"`
	LocalRuns      float64   `json:"local_runs"`
	NumbOfNights   int       `json:"numb_of_nights"`
	AmountPerNight float64   `json:"amount_per_night"`
	DTA            float64   `json:"dta"`
	Netpay         float64   `json:"netpay"`
	PaymentTitle   string    `json:"payment_title"`
	CreatedAt      time.Time `json:"created_at"`
}
