package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thomasakiou/neco-pay/internal/domain"
)

type StaffRepo struct {
	db *sql.DB
}

func NewStaffRepo(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

func (r *StaffRepo) Insert(s *domain.Staff) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO staff
		(staff_id, surname, firstname, middlename, name, department, location,
		 rank, contiss, bank_name, bank_code, sortcode, account_no, active, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.StaffID, s.Surname, s.Firstname, s.Middlename, s.Name, s.Department,
		s.Location, s.Rank, s.Contiss, s.BankName, s.BankCode, s.SortCode,
		s.AccountNo, boolToInt(s.Active), time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert staff: %w", err)
	}
	return res.LastInsertId()
}

// BulkInsert inserts staff rows in one transaction and returns the number
// inserted.
func (r *StaffRepo) BulkInsert(staff []domain.Staff) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO staff
		(staff_id, surname, firstname, middlename, name, department, location,
		 rank, contiss, bank_name, bank_code, sortcode, account_no, active, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	inserted := 0
	for i := range staff {
		s := &staff[i]
		if _, err := stmt.Exec(
			s.StaffID, s.Surname, s.Firstname, s.Middlename, s.Name, s.Department,
			s.Location, s.Rank, s.Contiss, s.BankName, s.BankCode, s.SortCode,
			s.AccountNo, boolToInt(s.Active), now,
		); err != nil {
			return inserted, fmt.Errorf("insert staff %d: %w", i, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// ListActive returns all active staff rows, the full-collection fetch the
// resolver indexes once per batch.
func (r *StaffRepo) ListActive() ([]domain.Staff, error) {
	rows, err := r.db.Query(
		`SELECT id, staff_id, surname, firstname, middlename, name, department,
		        location, rank, contiss, bank_name, bank_code, sortcode,
		        account_no, active
		 FROM staff WHERE active = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []domain.Staff
	for rows.Next() {
		var s domain.Staff
		var active int
		if err := rows.Scan(
			&s.ID, &s.StaffID, &s.Surname, &s.Firstname, &s.Middlename, &s.Name,
			&s.Department, &s.Location, &s.Rank, &s.Contiss, &s.BankName,
			&s.BankCode, &s.SortCode, &s.AccountNo, &active,
		); err != nil {
			return nil, err
		}
		s.Active = active != 0
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func (r *StaffRepo) DeleteByID(id int64) error {
	_, err := r.db.Exec("DELETE FROM staff WHERE id = ?", id)
	return err
}

func (r *StaffRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM staff").Scan(&count)
	return count, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
