package potential

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// ─────────────────────────────────────────────────────────────────────────────
// PotentialFile — the stored-potential aggregate
// ─────────────────────────────────────────────────────────────────────────────

// PotentialFile is a catalogued pseudopotential.  The raw file contents live
// in the object archive under ObjectKey; the catalog row carries only the
// identifying tags and the content fingerprint.
type PotentialFile struct {
	ID          uuid.UUID
	Name        string
	Element     string
	Version     int
	Functional  pottypes.Functional
	Fingerprint string
	Title       string
	ObjectKey   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPotentialFile builds a validated aggregate from a parsed record and the
// object-archive key its raw contents were stored under.
func NewPotentialFile(rec *Record, objectKey string) (*PotentialFile, error) {
	pf := &PotentialFile{
		ID:          uuid.New(),
		Name:        rec.Name,
		Element:     rec.Element,
		Version:     rec.Version,
		Functional:  rec.Functional,
		Fingerprint: rec.Fingerprint,
		Title:       rec.Title,
		ObjectKey:   objectKey,
	}
	if err := pf.Validate(); err != nil {
		return nil, err
	}
	return pf, nil
}

// Validate checks every attribute invariant of the aggregate.
func (p *PotentialFile) Validate() error {
	if err := ValidateElement(p.Element); err != nil {
		return err
	}
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if err := ValidateVersion(p.Version); err != nil {
		return err
	}
	if err := ValidateFunctional(p.Functional); err != nil {
		return err
	}
	if p.Fingerprint == "" {
		return errors.New(errors.CodeValidation, "fingerprint must not be empty")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Attribute validators
// ─────────────────────────────────────────────────────────────────────────────

// ValidateElement rejects element symbols that are not in the periodic table.
func ValidateElement(element string) error {
	if !KnownElement(element) {
		return errors.Newf(errors.ErrCodePotentialNameInvalid,
			"'%s' is not a valid chemical element symbol", element)
	}
	return nil
}

// ValidateName rejects potential names that do not start with a valid
// element symbol.  Names are the archive directory names like "Si", "Zr_sv"
// or "H1.25"; every one of them begins with the element it describes.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodePotentialNameInvalid,
			"potential name must not be empty")
	}
	if ElementPrefix(name) == "" {
		return errors.Newf(errors.ErrCodePotentialNameInvalid,
			"potential name '%s' does not start with a valid element symbol", name)
	}
	return nil
}

// ValidateVersion rejects versions below the undated sentinel.  Any 8-digit
// value at or above it is accepted without calendar validation since the
// version is an identifier, not a date.
func ValidateVersion(version int) error {
	if version < pottypes.VersionUndated {
		return errors.Newf(errors.ErrCodePotentialVersionInvalid,
			"potential version %d is below the minimum %d",
			version, pottypes.VersionUndated)
	}
	return nil
}

// ValidateFunctional rejects unknown functional identifiers.
func ValidateFunctional(functional pottypes.Functional) error {
	if !functional.Valid() {
		return errors.Newf(errors.ErrCodeFunctionalInvalid,
			"unknown functional '%s'", functional)
	}
	return nil
}

// Label renders the canonical "functional__name__title" identifier used in
// diagnostics, with whitespace runs in the title replaced by underscores.
func (p *PotentialFile) Label() string {
	rec := Record{Name: p.Name, Functional: p.Functional, Title: p.Title}
	return rec.QuirkKey()
}

// String implements fmt.Stringer for log output.
func (p *PotentialFile) String() string {
	return fmt.Sprintf("%s/%s@%d (%s)", p.Functional, p.Name, p.Version, shortHash(p.Fingerprint))
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
