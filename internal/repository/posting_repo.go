package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thomasakiou/neco-pay/internal/domain"
)

type PostingRepo struct {
	db *sql.DB
}

func NewPostingRepo(db *sql.DB) *PostingRepo {
	return &PostingRepo{db: db}
}

// UploadExistsByHash checks whether a sheet with the given file hash has
// already been ingested (idempotency check).
func (r *PostingRepo) UploadExistsByHash(hash string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM posting_uploads WHERE file_hash = ?", hash,
	).Scan(&count)
	return count > 0, err
}

func (r *PostingRepo) InsertUpload(u *domain.PostingUpload) error {
	_, err := r.db.Exec(
		`INSERT INTO posting_uploads
		(id, file_name, file_hash, header_row, original_rows, cleaned_rows, uploaded_at)
		VALUES (?,?,?,?,?,?,?)`,
		u.ID, u.FileName, u.FileHash, u.HeaderRow, u.OriginalRows,
		u.CleanedRows, u.UploadedAt.Format(time.RFC3339),
	)
	return err
}

// BulkInsert stores cleaned postings in one transaction.
func (r *PostingRepo) BulkInsert(postings []domain.Posting) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO postings
		(state, file_no, name, conraiss, station, posting, category, rank, mandate, active, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	for i := range postings {
		p := &postings[i]
		if _, err := stmt.Exec(
			p.State, p.FileNo, p.Name, p.Conraiss, p.Station, p.Posting,
			p.Category, p.Rank, p.Mandate, boolToInt(p.Active), now,
		); err != nil {
			return i, fmt.Errorf("insert posting %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(postings), nil
}

// ListActive returns all active postings in insertion order, the batch the
// payment run computes over.
func (r *PostingRepo) ListActive() ([]domain.Posting, error) {
	rows, err := r.db.Query(
		`SELECT id, state, file_no, name, conraiss, station, posting, category, rank, mandate, active
		 FROM postings WHERE active = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postings []domain.Posting
	for rows.Next() {
		var p domain.Posting
		var active int
		if err := rows.Scan(&p.ID, &p.State, &p.FileNo, &p.Name, &p.Conraiss,
			&p.Station, &p.Posting, &p.Category, &p.Rank, &p.Mandate, &active); err != nil {
			return nil, err
		}
		p.Active = active != 0
		postings = append(postings, p)
	}
	return postings, rows.Err()
}

func (r *PostingRepo) DeleteByID(id int64) error {
	_, err := r.db.Exec("DELETE FROM postings WHERE id = ?", id)
	return err
}

func (r *PostingRepo) DeleteAll() error {
	_, err := r.db.Exec("DELETE FROM postings")
	return err
}

func (r *PostingRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM postings").Scan(&count)
	return count, err
}
