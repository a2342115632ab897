package potential_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/potvault/internal/domain/potential"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

func TestValidityViolations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		rec        potential.Record
		wantCount  int
		wantDetail string
	}{
		{
			name: "fully valid record",
			rec: potential.Record{
				Element: "Si",
				Title:   "PAW_PBE Si 05Jan2001",
				Version: 20010105,
			},
			wantCount: 0,
		},
		{
			name: "undated sentinel is valid",
			rec: potential.Record{
				Element: "H",
				Title:   "H_AE Coulomb potential",
				Version: pottypes.VersionUndated,
			},
			wantCount: 0,
		},
		{
			name: "unknown element symbol",
			rec: potential.Record{
				Element: "Xx",
				Title:   "functional Xx 01Jan2000",
				Version: 20000101,
			},
			wantCount:  1,
			wantDetail: "not a known chemical element",
		},
		{
			name: "element absent from title",
			rec: potential.Record{
				Element: "Bi",
				Title:   "US Pb",
				Version: pottypes.VersionUndated,
			},
			wantCount:  1,
			wantDetail: "does not appear in the title",
		},
		{
			name: "version below the floor",
			rec: potential.Record{
				Element: "Si",
				Title:   "PAW_PBE Si",
				Version: 10000000,
			},
			wantCount:  1,
			wantDetail: "predates the undated sentinel",
		},
		{
			name: "missing version",
			rec: potential.Record{
				Element: "Si",
				Title:   "PAW_PBE Si",
			},
			wantCount:  1,
			wantDetail: "version is missing",
		},
		{
			name:      "everything wrong at once",
			rec:       potential.Record{Element: "", Title: "", Version: 0},
			wantCount: 2, // missing element and missing version
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			violations := potential.ValidityViolations(&tc.rec)
			assert.Len(t, violations, tc.wantCount)
			if tc.wantDetail != "" {
				found := false
				for _, v := range violations {
					if strings.Contains(v, tc.wantDetail) {
						found = true
					}
				}
				assert.True(t, found, "expected a violation containing %q, got %v", tc.wantDetail, violations)
			}
			assert.Equal(t, tc.wantCount == 0, tc.rec.IsValid())
		})
	}
}
