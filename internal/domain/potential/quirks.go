package potential

import pottypes "github.com/turtacn/potvault/pkg/types/potential"

// ─────────────────────────────────────────────────────────────────────────────
// Fix — a single tagged field override
// ─────────────────────────────────────────────────────────────────────────────

type fixKind int

const (
	fixElement fixKind = iota
	fixVersion
)

// Fix is one field override applied to a parsed record.  Fixes are plain
// data rather than callbacks so a table entry can be inspected and logged.
type Fix struct {
	kind    fixKind
	element string
	version int
}

// SetElement builds a Fix that overrides the parsed element symbol.
func SetElement(symbol string) Fix {
	return Fix{kind: fixElement, element: symbol}
}

// SetVersion builds a Fix that overrides the parsed version.
func SetVersion(version int) Fix {
	return Fix{kind: fixVersion, version: version}
}

// ─────────────────────────────────────────────────────────────────────────────
// QuirkTable — hand-curated corrections for known-broken potential files
// ─────────────────────────────────────────────────────────────────────────────

// QuirkTable maps a record's quirk key (functional__name__underscored-title)
// to the ordered list of fixes for that exact file.  Keys that are not
// present are simply left alone.
type QuirkTable struct {
	entries map[string][]Fix
}

// NewQuirkTable builds a table from the given entries.
func NewQuirkTable(entries map[string][]Fix) *QuirkTable {
	return &QuirkTable{entries: entries}
}

// Apply runs every fix registered for rec's quirk key, in order.
// A key miss is a no-op.
func (t *QuirkTable) Apply(rec *Record) {
	for _, fix := range t.entries[rec.QuirkKey()] {
		switch fix.kind {
		case fixElement:
			rec.Element = fix.element
		case fixVersion:
			rec.Version = fix.version
		}
	}
}

// Len returns the number of keyed entries in the table.
func (t *QuirkTable) Len() int { return len(t.entries) }

// DefaultQuirks returns the built-in correction table for the errors known
// to exist in the official VASP potential archives.  The Xe potentials ship
// without a VRHFIN element, the ultrasoft Bi potential declares Pb, the
// PBE Zr_sv file carries a bare "Zr_sv" where the element should be, and a
// handful of files write their creation year with two digits.
func DefaultQuirks() *QuirkTable {
	xe := []Fix{SetElement("Xe")}
	biPv29Jan08 := []Fix{SetVersion(20080129)}
	gaDGW10Nov06 := []Fix{SetVersion(20061110)}

	return NewQuirkTable(map[string][]Fix{
		// Missing or wrong VRHFIN element entries.
		string(pottypes.FuncPBE) + "__Xe__PAW_PBE_Xe_07Sep2000":   xe,
		string(pottypes.FuncPBE52) + "__Xe__PAW_PBE_Xe_07Sep2000": xe,
		string(pottypes.FuncPBE54) + "__Xe__PAW_PBE_Xe_07Sep2000": xe,
		string(pottypes.FuncLDA) + "__Xe__PAW_Xe_07Sep2000":       xe,
		string(pottypes.FuncLDA52) + "__Xe__PAW_Xe_07Sep2000":     xe,
		string(pottypes.FuncLDA54) + "__Xe__PAW_Xe_07Sep2000":     xe,

		string(pottypes.FuncPBE) + "__Zr_sv__PAW_PBE_Zr_sv_04Jan2005": {SetElement("Zr")},

		// The ultrasoft Bi potential declares VRHFIN = Pb.
		string(pottypes.FuncLDAUS) + "__Bi__US_Bi":  {SetElement("Bi")},
		string(pottypes.FuncPW91US) + "__Bi__US_Bi": {SetElement("Bi")},

		// Two-digit creation years pinned to their known dates.
		string(pottypes.FuncLDA) + "__Bi_pv__PAW_Bi_pv_29Jan08":     biPv29Jan08,
		string(pottypes.FuncPBE) + "__Bi_pv__PAW_PBE_Bi_pv_29Jan08": biPv29Jan08,

		string(pottypes.FuncPBE52) + "__Bi_pv__PAW_PBE_Bi_pv_29Jan08_GW_ready": biPv29Jan08,
		string(pottypes.FuncPBE54) + "__Bi_pv__PAW_PBE_Bi_pv_29Jan08_GW_ready": biPv29Jan08,

		string(pottypes.FuncLDA52) + "__Ga_d_GW__PAW_Ga_d_GW_10Nov06": gaDGW10Nov06,
		string(pottypes.FuncLDA54) + "__Ga_d_GW__PAW_Ga_d_GW_10Nov06": gaDGW10Nov06,

		string(pottypes.FuncPBE52) + "__Ga_sv_GW__PAW_PBE_Ga_sv_GW_03Mar08": {SetVersion(20080303)},
		string(pottypes.FuncPBE54) + "__Ga_sv_GW__PAW_PBE_Ga_sv_GW_03Mar08": {SetVersion(20080303)},
	})
}
