// Package resolve cross-references postings against the staff master, the
// bank-distance matrix and the grade parameter table. Lookups are built as
// indices once per batch, so resolution cost stays linear in total data size.
// A lookup miss is never an error: the affected fields degrade to zero/empty
// and the record continues through the pipeline.
package resolve

import (
	"log"
	"sort"
	"strings"

	"github.com/thomasakiou/neco-pay/internal/domain"
)

// Resolution carries the reference values for one posting. The found flags
// let callers count unresolved records for audit without re-deriving them
// from zero values.
type Resolution struct {
	BankName  string
	AccountNo string
	Distance  float64
	Kilometer float64
	PerNight  float64

	StaffFound     bool
	DistanceFound  bool
	ParameterFound bool
}

// Resolver holds the pre-built lookup indices for one batch. The reference
// collections are read-only for the duration of the batch; a Resolver is safe
// for concurrent use once built.
type Resolver struct {
	staff     map[string]*domain.Staff
	distances map[string]float64
	params    map[string]*domain.Parameter
	ambiguous []string
}

// NewResolver builds the lookup indices. On duplicate keys the first entry in
// input order wins, matching how the upstream system resolved them. Parameter
// suffixes shared by more than one row are recorded as ambiguous and logged
// for data-quality review; they do not fail the batch.
func NewResolver(staff []domain.Staff, distances []domain.Distance, params []domain.Parameter) *Resolver {
	r := &Resolver{
		staff:     make(map[string]*domain.Staff, len(staff)),
		distances: make(map[string]float64, len(distances)),
		params:    make(map[string]*domain.Parameter, len(params)),
	}

	for i := range staff {
		s := &staff[i]
		key := normKey(s.StaffID)
		if key == "" {
			continue
		}
		if _, ok := r.staff[key]; !ok {
			r.staff[key] = s
		}
	}

	for i := range distances {
		d := &distances[i]
		key := distanceKey(d.Source, d.Target)
		if _, ok := r.distances[key]; !ok {
			r.distances[key] = d.Distance
		}
	}

	dup := make(map[string]bool)
	for i := range params {
		p := &params[i]
		suffix := contissSuffix(p.Contiss)
		if suffix == "" {
			continue
		}
		if _, ok := r.params[suffix]; ok {
			dup[suffix] = true
			continue
		}
		r.params[suffix] = p
	}
	for suffix := range dup {
		r.ambiguous = append(r.ambiguous, suffix)
	}
	sort.Strings(r.ambiguous)
	if len(r.ambiguous) > 0 {
		log.Printf("[resolve] WARNING: %d ambiguous parameter suffixes (first row wins): %s",
			len(r.ambiguous), strings.Join(r.ambiguous, ", "))
	}

	return r
}

// AmbiguousSuffixes returns the contiss suffixes shared by more than one
// parameter row, sorted. Useful for flagging reference data that needs review.
func (r *Resolver) AmbiguousSuffixes() []string {
	return r.ambiguous
}

// Resolve looks up one posting against the three indices. Each field is
// individually zero/empty on a miss; Resolve never fails.
func (r *Resolver) Resolve(p domain.Posting) Resolution {
	var res Resolution

	if s := r.lookupStaff(p.FileNo); s != nil {
		res.StaffFound = true
		res.BankName = s.BankName
		res.AccountNo = s.AccountNo
	}

	if d, ok := r.distances[distanceKey(p.Station, p.Posting)]; ok {
		res.DistanceFound = true
		res.Distance = d
	}

	if param, ok := r.params[strings.TrimSpace(p.Conraiss)]; ok {
		res.ParameterFound = true
		res.Kilometer = param.Kilometer
		res.PerNight = param.PerNight
	}

	return res
}

// lookupStaff matches staff_id against file_no, retrying with the file number
// left-zero-padded to 4 characters. Sheets routinely drop leading zeros from
// numeric-looking identifiers, so "347" must find staff "0347".
func (r *Resolver) lookupStaff(fileNo string) *domain.Staff {
	key := normKey(fileNo)
	if key == "" {
		return nil
	}
	if s, ok := r.staff[key]; ok {
		return s
	}
	if s, ok := r.staff[zeroPad(key, 4)]; ok {
		return s
	}
	return nil
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func distanceKey(source, target string) string {
	// Directional on purpose: A→B is not B→A.
	return normKey(source) + "\x00" + normKey(target)
}

// contissSuffix returns the last two characters of the trimmed contiss code.
// The comparison against conraiss is exact (no case folding): a one-character
// code never matches a two-character suffix.
func contissSuffix(contiss string) string {
	c := strings.TrimSpace(contiss)
	if len(c) <= 2 {
		return c
	}
	return c[len(c)-2:]
}

func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
