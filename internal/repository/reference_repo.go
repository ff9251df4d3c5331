package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/thomasakiou/neco-pay/internal/domain"
)

// ReferenceRepo persists the three small reference tables the resolver reads:
// the distance matrix, the grade parameters, and the state→capital mapping.
type ReferenceRepo struct {
	db *sql.DB
}

func NewReferenceRepo(db *sql.DB) *ReferenceRepo {
	return &ReferenceRepo{db: db}
}

// --- distances ---

func (r *ReferenceRepo) InsertDistance(d *domain.Distance) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO distances (pcode, source, tcode, target, distance, tstate, active, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		d.PCode, d.Source, d.TCode, d.Target, d.Distance, d.TState,
		boolToInt(d.Active), time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert distance: %w", err)
	}
	return res.LastInsertId()
}

func (r *ReferenceRepo) BulkInsertDistances(distances []domain.Distance) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO distances (pcode, source, tcode, target, distance, tstate, active, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	for i := range distances {
		d := &distances[i]
		if _, err := stmt.Exec(
			d.PCode, d.Source, d.TCode, d.Target, d.Distance, d.TState,
			boolToInt(d.Active), now,
		); err != nil {
			return i, fmt.Errorf("insert distance %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(distances), nil
}

func (r *ReferenceRepo) ListDistances() ([]domain.Distance, error) {
	rows, err := r.db.Query(
		`SELECT id, pcode, source, tcode, target, distance, tstate, active
		 FROM distances WHERE active = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var distances []domain.Distance
	for rows.Next() {
		var d domain.Distance
		var active int
		if err := rows.Scan(&d.ID, &d.PCode, &d.Source, &d.TCode, &d.Target,
			&d.Distance, &d.TState, &active); err != nil {
			return nil, err
		}
		d.Active = active != 0
		distances = append(distances, d)
	}
	return distances, rows.Err()
}

// --- parameters ---

func (r *ReferenceRepo) InsertParameter(p *domain.Parameter) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO parameters (contiss, pernight, local, kilometer, active, created_at)
		 VALUES (?,?,?,?,?,?)`,
		p.Contiss, p.PerNight, p.Local, p.Kilometer,
		boolToInt(p.Active), time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert parameter: %w", err)
	}
	return res.LastInsertId()
}

// ListParameters returns active parameters in insertion order. Order matters:
// the resolver's suffix index takes the first row on ambiguous suffixes.
func (r *ReferenceRepo) ListParameters() ([]domain.Parameter, error) {
	rows, err := r.db.Query(
		`SELECT id, contiss, pernight, local, kilometer, active
		 FROM parameters WHERE active = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var params []domain.Parameter
	for rows.Next() {
		var p domain.Parameter
		var active int
		if err := rows.Scan(&p.ID, &p.Contiss, &p.PerNight, &p.Local,
			&p.Kilometer, &active); err != nil {
			return nil, err
		}
		p.Active = active != 0
		params = append(params, p)
	}
	return params, rows.Err()
}

// --- states ---

func (r *ReferenceRepo) InsertState(s *domain.State) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO states (code, state, capital, active) VALUES (?,?,?,?)`,
		s.Code, s.State, s.Capital, boolToInt(s.Active),
	)
	if err != nil {
		return 0, fmt.Errorf("insert state: %w", err)
	}
	return res.LastInsertId()
}

func (r *ReferenceRepo) BulkInsertStates(states []domain.State) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO states (code, state, capital, active) VALUES (?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range states {
		s := &states[i]
		res, err := stmt.Exec(s.Code, s.State, s.Capital, boolToInt(s.Active))
		if err != nil {
			return inserted, fmt.Errorf("insert state %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *ReferenceRepo) ListStates() ([]domain.State, error) {
	rows, err := r.db.Query(
		`SELECT id, code, state, capital, active FROM states WHERE active = 1 ORDER BY state`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []domain.State
	for rows.Next() {
		var s domain.State
		var active int
		if err := rows.Scan(&s.ID, &s.Code, &s.State, &s.Capital, &active); err != nil {
			return nil, err
		}
		s.Active = active != 0
		states = append(states, s)
	}
	return states, rows.Err()
}

// StateCapitalMap returns the lowercased state→capital lookup the ingestor
// uses for the derived posting column.
func (r *ReferenceRepo) StateCapitalMap() (map[string]string, error) {
	states, err := r.ListStates()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(states))
	for _, s := range states {
		if s.State != "" && s.Capital != "" {
			m[strings.ToLower(s.State)] = s.Capital
		}
	}
	return m, nil
}

func (r *ReferenceRepo) CountStates() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM states").Scan(&count)
	return count, err
}
