package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thomasakiou/neco-pay/internal/domain"
)

type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// BulkInsert stores a run's payments in one transaction.
func (r *PaymentRepo) BulkInsert(payments []domain.Payment) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO payments
		(run_id, file_no, name, conraiss, station, posting, bank, account_no,
		 transport, local_runs, numb_of_nights, amount_per_night, dta, netpay,
		 payment_title, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	for i := range payments {
		p := &payments[i]
		if _, err := stmt.Exec(
			p.RunID, p.FileNo, p.Name, p.Conraiss, p.Station, p.Posting,
			p.Bank, p.AccountNo, p.Transport, p.LocalRuns, p.NumbOfNights,
			p.AmountPerNight, p.DTA, p.Netpay, p.PaymentTitle, now,
		); err != nil {
			return i, fmt.Errorf("insert payment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(payments), nil
}

func (r *PaymentRepo) List() ([]domain.Payment, error) {
	return r.list("SELECT * FROM payments ORDER BY id")
}

func (r *PaymentRepo) ListByRun(runID string) ([]domain.Payment, error) {
	return r.list("SELECT * FROM payments WHERE run_id = ? ORDER BY id", runID)
}

func (r *PaymentRepo) list(query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var createdAt string
		if err := rows.Scan(
			&p.ID, &p.RunID, &p.FileNo, &p.Name, &p.Conraiss, &p.Station,
			&p.Posting, &p.Bank, &p.AccountNo, &p.Transport, &p.LocalRuns,
			&p.NumbOfNights, &p.AmountPerNight, &p.DTA, &p.Netpay,
			&p.PaymentTitle, &createdAt,
		); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			p.CreatedAt = t
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepo) DeleteByID(id int64) error {
	_, err := r.db.Exec("DELETE FROM payments WHERE id = ?", id)
	return err
}

func (r *PaymentRepo) DeleteAll() error {
	_, err := r.db.Exec("DELETE FROM payments")
	return err
}

func (r *PaymentRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM payments").Scan(&count)
	return count, err
}
