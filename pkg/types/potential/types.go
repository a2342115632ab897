// Package potential defines the pseudopotential-domain enumerations, tag
// filters, and data transfer structures used across every layer of potvault.
// No domain logic lives here — only plain data types that are safe to import
// from any layer without creating circular dependencies.
package potential

import (
	"fmt"
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Functional — exchange-correlation functional identifier
// ─────────────────────────────────────────────────────────────────────────────

// Functional identifies the exchange-correlation functional family a
// pseudopotential file belongs to.  The nine values mirror the pseudopotential
// archives shipped with VASP: ultrasoft (US) and projector-augmented-wave
// (PAW) variants of LDA, PBE and PW91, with the .52 / .54 PAW revisions.
type Functional string

const (
	FuncLDAUS  Functional = "lda_us"
	FuncLDA    Functional = "lda"
	FuncLDA52  Functional = "lda_52"
	FuncLDA54  Functional = "lda_54"
	FuncPBE    Functional = "pbe"
	FuncPBE52  Functional = "pbe_52"
	FuncPBE54  Functional = "pbe_54"
	FuncPW91US Functional = "pw91_us"
	FuncPW91   Functional = "pw91"
)

func (f Functional) String() string { return string(f) }

// Valid reports whether f is one of the nine known functional identifiers.
func (f Functional) Valid() bool {
	_, ok := functionalSet[f]
	return ok
}

var functionalSet = map[Functional]struct{}{
	FuncLDAUS:  {},
	FuncLDA:    {},
	FuncLDA52:  {},
	FuncLDA54:  {},
	FuncPBE:    {},
	FuncPBE52:  {},
	FuncPBE54:  {},
	FuncPW91US: {},
	FuncPW91:   {},
}

// ParseFunctional converts a raw string (case-insensitive) into a Functional.
// An error naming the offending input is returned for unknown identifiers.
func ParseFunctional(s string) (Functional, error) {
	f := Functional(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown functional '%s' (expected one of: %s)",
			s, strings.Join(AllFunctionalStrings(), ", "))
	}
	return f, nil
}

// AllFunctionals returns the nine known functionals in stable sorted order.
func AllFunctionals() []Functional {
	out := make([]Functional, 0, len(functionalSet))
	for f := range functionalSet {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllFunctionalStrings returns the nine known functional identifiers as
// strings, in stable sorted order.
func AllFunctionalStrings() []string {
	fs := AllFunctionals()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// ArchiveFunctionals — archive directory token → functional mapping
// ─────────────────────────────────────────────────────────────────────────────

// ArchiveFunctionals maps the lowercase archive directory tokens found in
// pseudopotential library paths to their Functional.  Note the VASP quirk
// that the PW91 archives are labelled "gga" on disk.
var ArchiveFunctionals = map[string]Functional{
	"potuspp_lda":   FuncLDAUS,
	"potpaw_lda":    FuncLDA,
	"potpaw_lda.52": FuncLDA52,
	"potpaw_lda.54": FuncLDA54,
	"potpaw_pbe":    FuncPBE,
	"potpaw_pbe.52": FuncPBE52,
	"potpaw_pbe.54": FuncPBE54,
	"potuspp_gga":   FuncPW91US,
	"potpaw_gga":    FuncPW91,
}

// ArchiveTokens returns the known archive directory tokens in stable sorted
// order, for use in error messages enumerating the valid identifiers.
func ArchiveTokens() []string {
	out := make([]string, 0, len(ArchiveFunctionals))
	for t := range ArchiveFunctionals {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// TagFilter — catalog query filter
// ─────────────────────────────────────────────────────────────────────────────

// TagFilter selects stored potentials by any subset of their identifying tags.
// Nil pointer fields are ignored; an entirely empty filter is rejected by the
// repository layer.
type TagFilter struct {
	// Name matches the potential name exactly (e.g., "Si", "Zr_sv").
	Name *string

	// Element matches the chemical element symbol exactly (e.g., "Si").
	Element *string

	// Functional matches the exchange-correlation functional.
	Functional *Functional

	// Version matches the numeric creation-date version (e.g., 20010105).
	Version *int

	// Fingerprint matches the SHA-256 content fingerprint (lowercase hex).
	Fingerprint *string
}

// Empty reports whether no filter field is set.
func (f TagFilter) Empty() bool {
	return f.Name == nil && f.Element == nil && f.Functional == nil &&
		f.Version == nil && f.Fingerprint == nil
}

// String renders the filter as "key=value" pairs for logs and error details.
func (f TagFilter) String() string {
	var parts []string
	if f.Name != nil {
		parts = append(parts, "name="+*f.Name)
	}
	if f.Element != nil {
		parts = append(parts, "element="+*f.Element)
	}
	if f.Functional != nil {
		parts = append(parts, "functional="+string(*f.Functional))
	}
	if f.Version != nil {
		parts = append(parts, fmt.Sprintf("version=%d", *f.Version))
	}
	if f.Fingerprint != nil {
		parts = append(parts, "fingerprint="+*f.Fingerprint)
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, " ")
}

// ─────────────────────────────────────────────────────────────────────────────
// Identity — path-derived potential identity
// ─────────────────────────────────────────────────────────────────────────────

// Identity is the (name, functional) pair derived from a potential file's
// location inside a pseudopotential library tree.
type Identity struct {
	// Name is the potential name taken from the parent directory (e.g., "Zr_sv").
	Name string

	// Functional is the archive-derived functional identifier.
	Functional Functional
}

// VersionUndated is the sentinel version assigned to potential files whose
// title carries no parseable creation date (the "01Jan1000" convention).
const VersionUndated = 10000101
