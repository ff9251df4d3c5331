package domain

import "time"

// Staff is one row of the staff master. StaffID is the canonical join key;
// posting sheets refer to it as "File No" and may drop leading zeros.
type Staff struct {
	ID         int64      `json:"id"`
	StaffID    string     `json:"staff_id"`
	Surname    string     `json:"surname,omitempty"`
	Firstname  string     `json:"firstname,omitempty"`
	Middlename string     `json:"middlename,omitempty"`
	Name       string     `json:"name,omitempty"`
	Department string     `json:"department,omitempty"`
	Location   string     `json:"location,omitempty"`
	Rank       string     `json:"rank,omitempty"`
	Contiss    string     `json:"contiss,omitempty"`
	BankName   string     `json:"bank_name,omitempty"`
	BankCode   string     `json:"bank_code,omitempty"`
	SortCode   string     `json:"sortcode,omitempty"`
	AccountNo  string     `json:"account_no,omitempty"`
	Active     bool       `json:"active"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// FullName joins the name parts, falling back to the legacy single-field name.
func (s *Staff) FullName() string {
	name := s.Surname
	if s.Firstname != "" {
		if name != "" {
			name += " "
		}
		name += s.Firstname
	}
	if s.Middlename != "" {
		if name != "" {
			name += " "
		}
		name += s.Middlename
	}
	if name == "" {
		return s.Name
	}
	return name
}
