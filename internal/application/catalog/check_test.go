package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/potvault/internal/application/catalog"
	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/testutil"
)

func newChecker() *catalog.Checker {
	log := testutil.NewMockLogger()
	return catalog.NewChecker(potential.NewParser(log), 4, log)
}

func TestChecker_HealthyLibraryProducesNoFindings(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePotcar(t, root, "potpaw_pbe", "Si",
		potcarContents("PAW_PBE Si 05Jan2001", "Si", ""))
	writePotcar(t, root, "potpaw_pbe", "Ge",
		potcarContents("PAW_PBE Ge 05Jan2001", "Ge", ""))

	findings, err := newChecker().CheckLibrary(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestChecker_FlagsElementMissingFromTitle(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	// VRHFIN says Ge but the title names Si: a classic mislabelled file.
	writePotcar(t, root, "potpaw_pbe", "Si",
		potcarContents("PAW_PBE Si 05Jan2001", "Ge", ""))

	findings, err := newChecker().CheckLibrary(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, findings, 1)

	f := findings[0]
	require.NotNil(t, f.Record)
	assert.NotEmpty(t, f.Violations)
	assert.Contains(t, f.Violations[0], "does not appear in the title")

	// The diagnostic line names the file, the parsed identity and the label.
	line := f.String()
	assert.Contains(t, line, f.Path)
	assert.Contains(t, line, "Ge 20010105")
	assert.Contains(t, line, "pbe__Si__PAW_PBE_Si_05Jan2001")
}

func TestChecker_ReportsUnparseableFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePotcar(t, root, "potpaw_pbe", "Si",
		[]byte("PAW_PBE Si 05Jan2001\nno sentinels here\n"))

	findings, err := newChecker().CheckLibrary(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Nil(t, f.Record)
	assert.Error(t, f.Err)
	assert.Contains(t, f.String(), "Error parsing the header")
}
