// Package mapping holds the read-only debtor/cost-center reference
// table and the repair step that fills canonical values into assembled
// export rows. The table is never written to; a failed lookup leaves
// the row untouched.
package mapping

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"belegexport/internal/export"
)

var nonDigitPattern = regexp.MustCompile(`\D`)

// minReliableDebtorDigits is the extracted-debtor length below which
// the number is treated as truncated and the cost-center alternate key
// is consulted first.
const minReliableDebtorDigits = 7

// Entry is one reference-table record.
type Entry struct {
	Firma       string
	Debtor      string
	CostCenter  string
	Description string
}

// Table is the in-memory reference table. Safe for concurrent readers.
type Table struct {
	entries  []Entry
	hasFirma bool
}

// NewTable builds a table from its entries. hasFirma reports whether
// the source carried a company column; without one, lookups are not
// company-scoped and the nearest-numeric fallback becomes available.
func NewTable(entries []Entry, hasFirma bool) *Table {
	return &Table{entries: entries, hasFirma: hasFirma}
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Resolve walks the lookup chain for an extracted (possibly truncated
// or missing) debtor number, stopping at the first match:
//
//  1. exact match on (company, debtor)
//  2. when the debtor is empty or shorter than 7 digits: exact match
//     on (company, cost-center), using the cost-center already on the
//     row as an alternate key
//  3. suffix match: a reference debtor ending in the extracted value
//  4. when nothing was extracted and the table has no company column:
//     nearest numeric cost-center
func (t *Table) Resolve(firma, debtor, costCenter string) (Entry, bool) {
	debtor = strings.TrimSpace(debtor)
	debtorDigits := nonDigitPattern.ReplaceAllString(debtor, "")

	if debtor != "" {
		for _, e := range t.entries {
			if e.Debtor == debtor && t.firmaMatches(e, firma) {
				return e, true
			}
		}
	}

	if len(debtorDigits) < minReliableDebtorDigits && costCenter != "" {
		for _, e := range t.entries {
			if t.costCenterMatches(e, costCenter) && t.firmaMatches(e, firma) {
				return e, true
			}
		}
	}

	if debtor != "" {
		for _, e := range t.entries {
			if strings.HasSuffix(e.Debtor, debtor) && t.firmaMatches(e, firma) {
				return e, true
			}
		}
	}

	if debtor == "" && !t.hasFirma {
		return t.nearestByCostCenter(costCenter)
	}

	return Entry{}, false
}

// Repair overwrites the row's debtor, cost-center and description from
// the best table match. KOSTTRAGER gets its dropped leading zero back;
// KOSTSTELLE is re-derived from the stored value's first 4 characters.
// Returns false (row untouched) when no entry matched.
func (t *Table) Repair(row *export.Row) bool {
	entry, ok := t.Resolve(row.Firma, row.DebiKredi, row.Kosttraeger)
	if !ok {
		return false
	}

	row.DebiKredi = entry.Debtor
	row.Kosttraeger = export.PadCostCenter(entry.CostCenter)
	row.KosttraegerBez = entry.Description
	row.Koststelle = export.DeriveKoststelle(entry.CostCenter)
	return true
}

// RepairAll runs Repair over a row slice and returns how many rows
// were updated.
func (t *Table) RepairAll(rows []export.Row) int {
	repaired := 0
	for i := range rows {
		if t.Repair(&rows[i]) {
			repaired++
		}
	}
	return repaired
}

func (t *Table) firmaMatches(e Entry, firma string) bool {
	if !t.hasFirma || firma == "" {
		return true
	}
	return e.Firma == firma
}

// costCenterMatches compares ignoring the optional leading zero.
func (t *Table) costCenterMatches(e Entry, costCenter string) bool {
	return strings.TrimLeft(e.CostCenter, "0") == strings.TrimLeft(costCenter, "0")
}

func (t *Table) nearestByCostCenter(costCenter string) (Entry, bool) {
	target, err := strconv.ParseInt(nonDigitPattern.ReplaceAllString(costCenter, ""), 10, 64)
	if err != nil {
		return Entry{}, false
	}

	var best Entry
	bestDistance := int64(math.MaxInt64)
	found := false
	for _, e := range t.entries {
		candidate, err := strconv.ParseInt(nonDigitPattern.ReplaceAllString(e.CostCenter, ""), 10, 64)
		if err != nil {
			continue
		}
		distance := candidate - target
		if distance < 0 {
			distance = -distance
		}
		if distance < bestDistance {
			bestDistance = distance
			best = e
			found = true
		}
	}
	return best, found
}
