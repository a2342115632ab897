// Package potential implements the pseudopotential domain model: parsing of
// raw POTCAR files into identified records, the quirk correction engine,
// path-based identity resolution, validity checks, and the stored-potential
// aggregate with its repository contract.
package potential

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// ─────────────────────────────────────────────────────────────────────────────
// Parsing regular expressions
// ─────────────────────────────────────────────────────────────────────────────

var (
	// reRemoveChars strips the '^' characters that occasionally pollute
	// potential files.
	reRemoveChars = regexp.MustCompile(`\^`)

	// reCondenseChars collapses runs of spaces and tabs into a single space.
	// Newlines are deliberately excluded so that line structure survives.
	reCondenseChars = regexp.MustCompile(`[ \t]+`)

	// reHeader captures everything strictly between the PSCTR start and end
	// sentinels.  The misspelled "controll" is verbatim from the files VASP
	// ships; do not correct it.
	reHeader = regexp.MustCompile(`(?is)parameters from psctr are:(.*?)end of psctr-controll parameters`)

	// reElement captures the element symbol from the VRHFIN line, tolerating
	// arbitrary spacing around '=' and before ':'.
	reElement = regexp.MustCompile(`(?i)VRHFIN\s*=\s*([a-zA-Z]+)\s*:`)

	// reDate matches strings shaped like the creation dates VASP uses
	// (e.g. "05Jan2001", "29Jan08").  Requiring at least three letters in the
	// middle avoids false positives on electron configurations like "s2p6".
	reDate = regexp.MustCompile(`(?i)([0-9]+)([a-z]{3,})([0-9]+)`)
)

// monthNumbers converts the month part of a creation date to its numeric
// value.  Some potential files use German month names ("okt", "dez"); both
// spellings map to the same month.
var monthNumbers = map[string]int{
	"jan": 1,
	"feb": 2,
	"mar": 3,
	"apr": 4,
	"may": 5,
	"jun": 6,
	"jul": 7,
	"aug": 8,
	"sep": 9,
	"oct": 10, "okt": 10,
	"nov": 11,
	"dec": 12, "dez": 12,
}

// ─────────────────────────────────────────────────────────────────────────────
// Content reduction and fingerprinting
// ─────────────────────────────────────────────────────────────────────────────

// ReduceContents returns the canonical reduced form of raw potential
// contents: all '^' characters removed and every run of spaces and tabs
// collapsed to a single space.  Newlines are left untouched.  Reduction is
// idempotent, so feeding reduced output back in returns it unchanged.
func ReduceContents(raw []byte) string {
	s := reRemoveChars.ReplaceAllString(string(raw), "")
	return reCondenseChars.ReplaceAllString(s, " ")
}

// FingerprintContents returns the lowercase hex SHA-256 digest of the reduced
// contents.  Hashing the reduced form instead of the raw bytes keeps two
// copies of the same potential equal even when their whitespace layout
// differs.
func FingerprintContents(reduced string) string {
	sum := sha256.Sum256([]byte(reduced))
	return hex.EncodeToString(sum[:])
}

// ─────────────────────────────────────────────────────────────────────────────
// Record — a fully parsed potential file
// ─────────────────────────────────────────────────────────────────────────────

// Record is the result of parsing a single potential file.  Zero values
// denote fields that could not be extracted: Element "" and Header "" mean
// the respective regex found no match, Version 0 means no creation date was
// recovered.
type Record struct {
	// Name is the declared potential name (e.g., "Si", "Zr_sv").
	Name string

	// Functional is the declared exchange-correlation functional.
	Functional pottypes.Functional

	// Source is the path the file was read from, used in diagnostics.
	Source string

	// Raw holds the unmodified file contents for archival.
	Raw []byte

	// Reduced is the whitespace-normalised content the fingerprint and all
	// field extraction operate on.
	Reduced string

	// Fingerprint is the SHA-256 hex digest of Reduced.
	Fingerprint string

	// Title is the first line of the reduced contents.
	Title string

	// Header is the region strictly between the PSCTR sentinels.
	Header string

	// Element is the chemical element symbol from the VRHFIN line.
	Element string

	// Version is the creation date encoded as YYYYMMDD.
	Version int
}

// QuirkKey returns the stable identifier used to look up hand-curated
// corrections for this record: the functional, the name, and the title with
// every whitespace run replaced by a single underscore, joined by "__".
func (r *Record) QuirkKey() string {
	title := strings.Join(strings.Fields(r.Title), "_")
	return fmt.Sprintf("%s__%s__%s", r.Functional, r.Name, title)
}

// ─────────────────────────────────────────────────────────────────────────────
// Parser
// ─────────────────────────────────────────────────────────────────────────────

// Parser turns raw potential files into verified Records.  It is stateless
// apart from its quirk table and logger and safe for concurrent use.
type Parser struct {
	quirks *QuirkTable
	log    logging.Logger
}

// NewParser constructs a Parser with the built-in quirk table.
func NewParser(log logging.Logger) *Parser {
	return &Parser{
		quirks: DefaultQuirks(),
		log:    log.Named("parser"),
	}
}

// ParseFile reads the file at path and parses it under the given identity.
func (p *Parser) ParseFile(path string, id pottypes.Identity) (*Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIOError,
			fmt.Sprintf("failed to read potential file '%s'", path))
	}
	return p.Parse(raw, id, path)
}

// Parse extracts all identifying fields from raw potential contents.
// The source string is only used in diagnostics and error messages.
// Contents that are not valid UTF-8 or that hold no newline at all cannot
// carry a title line and are rejected outright.  After extraction the quirk
// table is consulted for hand-curated corrections, then the record is
// verified: a missing header, element or creation date is a hard parsing
// failure.
func (p *Parser) Parse(raw []byte, id pottypes.Identity, source string) (*Record, error) {
	if !utf8.Valid(raw) {
		return nil, errors.Newf(errors.CodePotentialParseFailed,
			"Error decoding the contents of file '%s'", source)
	}

	reduced := ReduceContents(raw)
	nl := strings.IndexByte(reduced, '\n')
	if nl < 0 {
		return nil, errors.Newf(errors.CodePotentialParseFailed,
			"Error parsing the title for file '%s'", source)
	}

	rec := &Record{
		Name:        id.Name,
		Functional:  id.Functional,
		Source:      source,
		Raw:         raw,
		Reduced:     reduced,
		Fingerprint: FingerprintContents(reduced),
		Title:       reduced[:nl],
	}

	rec.Header = HeaderRegion(reduced)
	if m := reElement.FindStringSubmatch(reduced); m != nil {
		rec.Element = m[1]
	}
	rec.Version = p.extractVersion(rec)

	p.quirks.Apply(rec)

	if err := p.verify(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// HeaderRegion returns the region strictly between the PSCTR sentinels, or
// "" when either sentinel is absent.  The match is not trimmed.
func HeaderRegion(contents string) string {
	if m := reHeader.FindStringSubmatch(contents); m != nil {
		return m[1]
	}
	return ""
}

// extractVersion recovers the creation date from the reduced contents and
// encodes it as YYYYMMDD.  Dates written with two-digit years ("29Jan08")
// are interpreted as 20xx.  Files without any parseable date fall back to
// the undated sentinel when they are recognisable as Coulomb ("H"),
// ultrasoft ("US") or norm-conserving ("NC") potentials; everything else is
// left at 0 and rejected during verification.
func (p *Parser) extractVersion(rec *Record) int {
	if m := reDate.FindStringSubmatch(rec.Reduced); m != nil {
		if month, ok := monthNumbers[strings.ToLower(m[2])]; ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
			v, err := strconv.Atoi(fmt.Sprintf("%04d%02d%02d", year, month, day))
			if err == nil {
				return v
			}
		}
	}

	switch {
	case rec.Element == "H":
		p.log.Warn("no creation date found, assuming Coulomb potential ('H_AE')",
			logging.String("source", rec.Source),
			logging.Int("version", pottypes.VersionUndated))
		return pottypes.VersionUndated
	case strings.Contains(rec.Title, "US"):
		p.log.Warn("no creation date found for ultrasoft potential",
			logging.String("source", rec.Source),
			logging.Int("version", pottypes.VersionUndated))
		return pottypes.VersionUndated
	case strings.Contains(rec.Title, "NC"):
		p.log.Warn("no creation date found for norm-conserving potential",
			logging.String("source", rec.Source),
			logging.Int("version", pottypes.VersionUndated))
		return pottypes.VersionUndated
	}
	return 0
}

// verify rejects records with missing header, element or creation date.
func (p *Parser) verify(rec *Record) error {
	if rec.Header == "" {
		return errors.Newf(errors.CodePotentialHeaderMissing,
			"Error parsing the header for file '%s'", rec.Source)
	}
	if rec.Element == "" {
		return errors.Newf(errors.CodePotentialElementMissing,
			"Error parsing the element for file '%s'", rec.Source)
	}
	if rec.Version == 0 {
		return errors.Newf(errors.CodePotentialDateMissing,
			"Error parsing creation date for file '%s'", rec.Source)
	}
	return nil
}
