package domain

import "time"

// Posting is one staff member's travel assignment for a payment run, as
// extracted from an uploaded posting sheet. Posting (the destination) is
// derived during ingestion from the state→capital mapping; it is empty when
// neither the state nor the raw posting column maps to a known capital.
type Posting struct {
	ID        int64      `json:"id"`
	State     string     `json:"state,omitempty"`
	FileNo    string     `json:"file_no"`
	Name      string     `json:"name"`
	Conraiss  string     `json:"conraiss"`
	Station   string     `json:"station"`
	Posting   string     `json:"posting"`
	Category  string     `json:"category,omitempty"`
	Rank      string     `json:"rank,omitempty"`
	Mandate   string     `json:"mandate,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// PostingUpload records one accepted sheet upload. The file hash makes
// re-uploads of the same sheet idempotent.
type PostingUpload struct {
	ID           string    `json:"id"`
	FileName     string    `json:"file_name"`
	FileHash     string    `json:"file_hash"`
	HeaderRow    int       `json:"header_row"`
	OriginalRows int       `json:"original_rows"`
	CleanedRows  int       `json:"cleaned_rows"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
