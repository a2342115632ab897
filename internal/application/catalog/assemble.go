package catalog

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// Assembler builds multi-element POTCAR files from catalogued potentials.
// Calculations list one potential per atomic species, in the order the
// species appear in the structure; the assembled file is the concatenation
// of the stored raw contents in exactly that order.
type Assembler struct {
	repo  potential.Repository
	store potential.ContentStore
	log   logging.Logger
}

// NewAssembler constructs an assembler over the given catalog backends.
func NewAssembler(repo potential.Repository, store potential.ContentStore, log logging.Logger) *Assembler {
	return &Assembler{repo: repo, store: store, log: log.Named("assemble")}
}

// Assemble concatenates the raw contents of one stored potential per entry
// of names, resolved under the given functional, preserving order.  When a
// name is catalogued in several versions the newest one is used.  A name
// with no stored potential fails the whole assembly.
func (a *Assembler) Assemble(ctx context.Context, functional pottypes.Functional, names []string) ([]byte, error) {
	if err := potential.ValidateFunctional(functional); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New(errors.CodeInvalidParam,
			"at least one potential name is required")
	}

	var buf bytes.Buffer
	for _, name := range names {
		pf, err := a.resolve(ctx, functional, name)
		if err != nil {
			return nil, err
		}
		raw, err := a.store.Get(ctx, pf.ObjectKey)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeCatalogAssembleFailed,
				fmt.Sprintf("failed to load stored contents of '%s'", name))
		}
		buf.Write(raw)
		if len(raw) > 0 && raw[len(raw)-1] != '\n' {
			buf.WriteByte('\n')
		}
		a.log.Debug("assembled potential",
			logging.String("name", pf.Name),
			logging.Int("version", pf.Version))
	}
	return buf.Bytes(), nil
}

// resolve picks the catalogued potential for one species: the newest stored
// version under the requested name and functional.
func (a *Assembler) resolve(ctx context.Context, functional pottypes.Functional, name string) (*potential.PotentialFile, error) {
	matches, err := a.repo.FindByTags(ctx, pottypes.TagFilter{
		Name:       &name,
		Functional: &functional,
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.Newf(errors.CodeCatalogAssembleFailed,
			"no potential with name '%s' is stored for functional '%s'",
			name, functional)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Version > matches[j].Version })
	return matches[0], nil
}
