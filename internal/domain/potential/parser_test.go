package potential_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// samplePotcar builds minimal but structurally complete potential contents.
func samplePotcar(title, vrhfin string) []byte {
	return []byte(strings.Join([]string{
		title,
		"parameters from PSCTR are:",
		"  VRHFIN =" + vrhfin + ": s2p2",
		"  LEXCH  = PE",
		"  TITEL  = " + title,
		"END of PSCTR-controll parameters",
		"numerical potential contents following the header",
	}, "\n"))
}

func newParser() *potential.Parser {
	return potential.NewParser(logging.NewNopLogger())
}

// ─────────────────────────────────────────────────────────────────────────────
// Content reduction
// ─────────────────────────────────────────────────────────────────────────────

func TestReduceContents_RemovesCaretChars(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"^", ""},
		{"^^^^", ""},
		{"^sample", "sample"},
		{"sample^", "sample"},
		{"s^a^m^p^l^e", "sample"},
		{"sa^^m^^^p^le", "sample"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, potential.ReduceContents([]byte(tc.in)), tc.in)
	}
}

func TestReduceContents_CondensesSpacesAndTabs(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{" ", " "},
		{"    ", " "},
		{"   sample", " sample"},
		{"sample   ", "sample "},
		{"s  a   m p l    e", "s a m p l e"},
		{"\t", " "},
		{"\t\t\tsample", " sample"},
		{"sample\t\t\t", "sample "},
		{"s\t\ta\t\t\tm\tp\tl\t\t\t\te", "s a m p l e"},
		{"s\t \ta\t  \t\tm\tp\t  l \t \t\t \te", "s a m p l e"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, potential.ReduceContents([]byte(tc.in)), "%q", tc.in)
	}
}

func TestReduceContents_PreservesNewlines(t *testing.T) {
	t.Parallel()

	in := "line one\t\tend\nline  two\n\nline three"
	assert.Equal(t, "line one end\nline two\n\nline three",
		potential.ReduceContents([]byte(in)))
}

func TestReduceContents_IsIdempotent(t *testing.T) {
	t.Parallel()

	raw := []byte("  a\t\tb ^ c\nd   e\t^f\n")
	once := potential.ReduceContents(raw)
	twice := potential.ReduceContents([]byte(once))
	assert.Equal(t, once, twice)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprinting
// ─────────────────────────────────────────────────────────────────────────────

func TestFingerprintContents_Deterministic(t *testing.T) {
	t.Parallel()

	reduced := potential.ReduceContents(samplePotcar("PAW_PBE Si 05Jan2001", "Si"))
	first := potential.FingerprintContents(reduced)
	second := potential.FingerprintContents(reduced)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.Equal(t, strings.ToLower(first), first, "fingerprint must be lowercase hex")
}

func TestFingerprint_EqualAcrossWhitespaceLayouts(t *testing.T) {
	t.Parallel()

	a := []byte("TITEL  = PAW_PBE Si 05Jan2001\ndata 1.0  2.0")
	b := []byte("TITEL = PAW_PBE\tSi   05Jan2001\ndata  1.0 2.0")

	fpA := potential.FingerprintContents(potential.ReduceContents(a))
	fpB := potential.FingerprintContents(potential.ReduceContents(b))
	assert.Equal(t, fpA, fpB,
		"whitespace layout must not change the fingerprint")
}

func TestFingerprint_DiffersForDifferentContents(t *testing.T) {
	t.Parallel()

	fpA := potential.FingerprintContents("contents A")
	fpB := potential.FingerprintContents("contents B")
	assert.NotEqual(t, fpA, fpB)
}

// ─────────────────────────────────────────────────────────────────────────────
// Field extraction
// ─────────────────────────────────────────────────────────────────────────────

func TestParse_ExtractsAllFields(t *testing.T) {
	t.Parallel()

	raw := samplePotcar("PAW_PBE Si 05Jan2001", "Si")
	rec, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "/lib/POTCAR")
	require.NoError(t, err)

	assert.Equal(t, "Si", rec.Name)
	assert.Equal(t, pottypes.FuncPBE, rec.Functional)
	assert.Equal(t, "PAW_PBE Si 05Jan2001", rec.Title)
	assert.Equal(t, "Si", rec.Element)
	assert.Equal(t, 20010105, rec.Version)
	assert.NotEmpty(t, rec.Header)
	assert.NotContains(t, rec.Header, "PSCTR are:")
	assert.Contains(t, rec.Header, "VRHFIN")
	assert.Len(t, rec.Fingerprint, 64)
}

func TestParse_HeaderIsStrictlyBetweenSentinels(t *testing.T) {
	t.Parallel()

	raw := []byte("before head parameters from PSCTR are: header END of PSCTR-controll parameters after head\nVRHFIN =Si:\n05Jan2001")
	rec, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "x")
	require.NoError(t, err)
	assert.Equal(t, " header ", rec.Header)
}

func TestParse_HeaderSentinelsAreCaseInsensitive(t *testing.T) {
	t.Parallel()

	raw := []byte("title Si 05Jan2001\nPARAMETERS FROM PSCTR ARE:\nVRHFIN =Si:\nend of psctr-controll parameters\n")
	rec, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "x")
	require.NoError(t, err)
	assert.Contains(t, rec.Header, "VRHFIN")
}

func TestParse_ElementRegexToleratesSpacing(t *testing.T) {
	t.Parallel()

	variants := []string{
		"VRHFIN=Si:",
		" VRHFIN=Si:",
		"VRHFIN=Si :",
		"VRHFIN =Si:",
		"VRHFIN = Si:",
		"VRHFIN =   Si   :",
	}
	for _, v := range variants {
		raw := []byte("title Si 05Jan2001\nparameters from PSCTR are:\n" + v + "\nEND of PSCTR-controll parameters\n")
		rec, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "x")
		require.NoError(t, err, v)
		assert.Equal(t, "Si", rec.Element, v)
	}
}

func TestParse_VersionDates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		date string
		want int
	}{
		{"05Jan2001", 20010105},
		{"07Sep2000", 20000907},
		{"29Jan08", 20080129}, // two-digit years are read as 20xx
		{"10Okt1998", 19981010},
		{"23Dez2003", 20031223},
		{"99Mar9999", 99990399},
		{"01Jan1000", 10000101},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.date, func(t *testing.T) {
			t.Parallel()

			raw := samplePotcar("functional Si "+tc.date, "Si")
			rec, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "x")
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec.Version)
		})
	}
}

func TestParse_DateRegexIgnoresElectronConfigurations(t *testing.T) {
	t.Parallel()

	// s2p6 and friends must not look like creation dates.
	raw := []byte(strings.Join([]string{
		"US Si",
		"parameters from PSCTR are:",
		"VRHFIN =Si: s2p6",
		"END of PSCTR-controll parameters",
	}, "\n"))
	rec, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncLDAUS}, "x")
	require.NoError(t, err)
	// Falls back to the undated sentinel via the "US" title marker.
	assert.Equal(t, pottypes.VersionUndated, rec.Version)
}

// ─────────────────────────────────────────────────────────────────────────────
// Date-less fallbacks
// ─────────────────────────────────────────────────────────────────────────────

func TestParse_HydrogenFallbackWarnsAndUsesSentinel(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.WarnLevel)
	parser := potential.NewParser(logging.NewLoggerFromCore(core))

	raw := []byte(strings.Join([]string{
		"H_AE Coulomb potential",
		"parameters from PSCTR are:",
		"VRHFIN =H: no date here",
		"END of PSCTR-controll parameters",
	}, "\n"))
	rec, err := parser.Parse(raw, pottypes.Identity{Name: "H_AE", Functional: pottypes.FuncPBE}, "x")
	require.NoError(t, err)

	assert.Equal(t, pottypes.VersionUndated, rec.Version)
	require.NotEmpty(t, observed.All(), "fallback must log a warning")
	assert.Contains(t, observed.All()[0].Message, "no creation date")
}

func TestParse_FallbackOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		title   string
		vrhfin  string
		wantVer int
	}{
		{"US title marker", "US Bi", "Pb", pottypes.VersionUndated},
		{"NC title marker", "NC Something", "Si", pottypes.VersionUndated},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			raw := []byte(strings.Join([]string{
				tc.title,
				"parameters from PSCTR are:",
				"VRHFIN =" + tc.vrhfin + ":",
				"END of PSCTR-controll parameters",
			}, "\n"))
			rec, err := newParser().Parse(raw, pottypes.Identity{Name: "X", Functional: pottypes.FuncLDAUS}, "x")
			require.NoError(t, err)
			assert.Equal(t, tc.wantVer, rec.Version)
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Verification failures
// ─────────────────────────────────────────────────────────────────────────────

func TestParse_MissingHeaderFails(t *testing.T) {
	t.Parallel()

	raw := []byte("title Si 05Jan2001\nVRHFIN =Si:\nno sentinels anywhere")
	_, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "/lib/POTCAR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error parsing the header for file '/lib/POTCAR'")
	assert.True(t, errors.IsCode(err, errors.CodePotentialHeaderMissing))
}

func TestParse_MissingElementFails(t *testing.T) {
	t.Parallel()

	raw := []byte("title Si 05Jan2001\nparameters from PSCTR are:\nno element line\nEND of PSCTR-controll parameters\n")
	_, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "/lib/POTCAR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error parsing the element for file '/lib/POTCAR'")
	assert.True(t, errors.IsCode(err, errors.CodePotentialElementMissing))
}

func TestParse_MissingDateFails(t *testing.T) {
	t.Parallel()

	// No date, element is not H, and the title carries neither US nor NC.
	raw := []byte("title without date\nparameters from PSCTR are:\nVRHFIN =Si:\nEND of PSCTR-controll parameters\n")
	_, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "/lib/POTCAR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error parsing creation date for file '/lib/POTCAR'")
	assert.True(t, errors.IsCode(err, errors.CodePotentialDateMissing))
}

func TestParse_UnknownMonthFallsIntoDatelessPath(t *testing.T) {
	t.Parallel()

	// "99Zyx99" is date-shaped but "zyx" is not a month.
	raw := []byte("title 99Zyx99\nparameters from PSCTR are:\nVRHFIN =Si:\nEND of PSCTR-controll parameters\n")
	_, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePotentialDateMissing))
}

func TestParse_SingleLineContentsFail(t *testing.T) {
	t.Parallel()

	// Sentinels, element and date all on one line: without a newline there
	// is no title line to extract, so the file is malformed.
	raw := []byte("parameters from PSCTR are: VRHFIN =Si: 05Jan2001 END of PSCTR-controll parameters")
	_, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "/lib/POTCAR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error parsing the title for file '/lib/POTCAR'")
	assert.True(t, errors.IsCode(err, errors.CodePotentialParseFailed))
}

func TestParse_InvalidEncodingFails(t *testing.T) {
	t.Parallel()

	raw := append([]byte{0xff, 0xfe}, samplePotcar("PAW_PBE Si 05Jan2001", "Si")...)
	_, err := newParser().Parse(raw, pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE}, "/lib/POTCAR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error decoding the contents of file '/lib/POTCAR'")
	assert.True(t, errors.IsCode(err, errors.CodePotentialParseFailed))
}

// ─────────────────────────────────────────────────────────────────────────────
// ParseFile
// ─────────────────────────────────────────────────────────────────────────────

func TestParseFile_ReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "POTCAR")
	require.NoError(t, os.WriteFile(path, samplePotcar("PAW_PBE Cu 05Jan2001", "Cu"), 0o644))

	rec, err := newParser().ParseFile(path, pottypes.Identity{Name: "Cu", Functional: pottypes.FuncPBE})
	require.NoError(t, err)
	assert.Equal(t, "Cu", rec.Element)
	assert.Equal(t, 20010105, rec.Version)
	assert.Equal(t, path, rec.Source)
}

func TestParseFile_MissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := newParser().ParseFile("/nonexistent/POTCAR", pottypes.Identity{Name: "Si", Functional: pottypes.FuncPBE})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeIOError))
}

// ─────────────────────────────────────────────────────────────────────────────
// QuirkKey
// ─────────────────────────────────────────────────────────────────────────────

func TestQuirkKey_Format(t *testing.T) {
	t.Parallel()

	rec := &potential.Record{
		Name:       "N",
		Functional: "F",
		Title:      "functional Xy 01Jan1000",
	}
	assert.Equal(t, "F__N__functional_Xy_01Jan1000", rec.QuirkKey())
}

func TestQuirkKey_CollapsesWhitespaceRuns(t *testing.T) {
	t.Parallel()

	rec := &potential.Record{
		Name:       "Si",
		Functional: pottypes.FuncPBE,
		Title:      "  PAW_PBE   Si \t 05Jan2001 ",
	}
	assert.Equal(t, "pbe__Si__PAW_PBE_Si_05Jan2001", rec.QuirkKey())
}
