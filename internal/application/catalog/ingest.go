// Package catalog implements the application services around the potential
// catalog: ingesting single files and whole library trees, querying stored
// potentials, validity scanning, multi-element assembly, and the library
// watcher.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// ─────────────────────────────────────────────────────────────────────────────
// Scan results
// ─────────────────────────────────────────────────────────────────────────────

// FileStatus classifies the outcome of a single file during a family scan.
type FileStatus int

const (
	// StatusNew marks a potential that is not yet catalogued.
	StatusNew FileStatus = iota
	// StatusAlreadyPresent marks a potential whose identical contents are
	// already stored.
	StatusAlreadyPresent
	// StatusSkipped marks a file that failed identity resolution, parsing,
	// or whose identifiers collide with different stored contents.
	StatusSkipped
)

// FileResult is one row of a family-scan report.
type FileResult struct {
	// Path is the absolute location of the scanned file.
	Path string

	// Record is the parsed potential; nil when parsing failed.
	Record *potential.Record

	// Status classifies the file.
	Status FileStatus

	// Err holds the failure for StatusSkipped and the duplicate error for
	// StatusAlreadyPresent.
	Err error
}

// Summary aggregates a family scan into the three counters reported to the
// user.
type Summary struct {
	New            int
	AlreadyPresent int
	Skipped        int
}

// Total returns the number of discovered files.
func (s Summary) Total() int { return s.New + s.AlreadyPresent + s.Skipped }

// Summarize counts scan results by status.
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusNew:
			s.New++
		case StatusAlreadyPresent:
			s.AlreadyPresent++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Service
// ─────────────────────────────────────────────────────────────────────────────

// Service is the catalog ingest and query facade used by every interface.
type Service struct {
	repo    potential.Repository
	store   potential.ContentStore
	parser  *potential.Parser
	workers int
	log     logging.Logger
}

// NewService constructs the catalog service.  workers bounds the number of
// files parsed concurrently during family scans; values below 1 are raised
// to 1.
func NewService(repo potential.Repository, store potential.ContentStore,
	parser *potential.Parser, workers int, log logging.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		repo:    repo,
		store:   store,
		parser:  parser,
		workers: workers,
		log:     log.Named("catalog"),
	}
}

// AddPotential ingests a single potential file under an explicitly declared
// name and functional.  The file is parsed, checked for uniqueness, its raw
// contents archived, and the catalog row stored.
func (s *Service) AddPotential(ctx context.Context, path, name string,
	functional pottypes.Functional) (*potential.PotentialFile, error) {
	if err := potential.ValidateFunctional(functional); err != nil {
		return nil, err
	}
	rec, err := s.parser.ParseFile(path, pottypes.Identity{Name: name, Functional: functional})
	if err != nil {
		return nil, err
	}
	return s.Store(ctx, rec)
}

// Store catalogues a parsed record: uniqueness check, raw-content archival,
// catalog row.  Identifier collisions are never silently resolved; the
// caller decides whether a duplicate is an error or routine.
func (s *Service) Store(ctx context.Context, rec *potential.Record) (*potential.PotentialFile, error) {
	if err := s.ensureUnique(ctx, rec); err != nil {
		return nil, err
	}

	key := potential.ObjectKey(rec.Fingerprint)
	if err := s.store.Put(ctx, key, rec.Raw); err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError,
			fmt.Sprintf("failed to archive raw contents of '%s'", rec.Source))
	}

	pf, err := potential.NewPotentialFile(rec, key)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, pf); err != nil {
		return nil, err
	}

	s.log.Info("stored potential",
		logging.String("name", pf.Name),
		logging.String("element", pf.Element),
		logging.String("functional", string(pf.Functional)),
		logging.Int("version", pf.Version),
		logging.String("id", pf.ID.String()))
	return pf, nil
}

// ensureUnique rejects records whose (name, functional, version) identifiers
// are already catalogued.  A hit with the same fingerprint is the routine
// duplicate case; a hit with a different fingerprint means two genuinely
// different files share identifiers and must be resolved by hand.
func (s *Service) ensureUnique(ctx context.Context, rec *potential.Record) error {
	matches, err := s.repo.FindByTags(ctx, pottypes.TagFilter{
		Name:       &rec.Name,
		Functional: &rec.Functional,
		Version:    &rec.Version,
	})
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	first := matches[0]
	if first.Fingerprint == rec.Fingerprint {
		return errors.Newf(errors.CodePotentialDuplicate,
			"Identical potential (same identifiers and identical hash value) "+
				"is already present in the catalog with ID %s", first.ID)
	}
	return errors.Newf(errors.CodePotentialConflict,
		"Potential with matching identifiers (%s, %d, %s) but different hash "+
			"value is already present in the catalog with ID %s. Carefully "+
			"check the potential contents and change the potential identifiers "+
			"in order to store the potential",
		rec.Name, rec.Version, rec.Functional, first.ID)
}

// ─────────────────────────────────────────────────────────────────────────────
// Family scan
// ─────────────────────────────────────────────────────────────────────────────

// ScanFamily recursively searches root for files named POTCAR, derives each
// file's identity from its path, parses it, and classifies it against the
// catalog.  Files are processed concurrently; a failure in one file never
// aborts the scan.  Results are ordered by path.
func (s *Service) ScanFamily(ctx context.Context, root string) ([]FileResult, error) {
	paths, err := findPotcarFiles(root)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = s.classify(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// classify resolves, parses and uniqueness-checks one file.
func (s *Service) classify(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}

	id, err := potential.ResolvePath(path)
	if err != nil {
		s.log.Warn("skipping file, identity resolution failed",
			logging.String("path", path), logging.Err(err))
		res.Status = StatusSkipped
		res.Err = err
		return res
	}

	rec, err := s.parser.ParseFile(path, id)
	if err != nil {
		s.log.Warn("skipping file due to a parsing error",
			logging.String("path", path), logging.Err(err))
		res.Status = StatusSkipped
		res.Err = err
		return res
	}
	res.Record = rec

	switch err := s.ensureUnique(ctx, rec); {
	case err == nil:
		res.Status = StatusNew
	case errors.IsCode(err, errors.CodePotentialDuplicate):
		res.Status = StatusAlreadyPresent
		res.Err = err
	default:
		// Identifier collisions with different contents are reported as
		// errors, never resolved automatically.
		s.log.Error("skipping file, identifiers collide with stored contents",
			logging.String("path", path), logging.Err(err))
		res.Status = StatusSkipped
		res.Err = err
	}
	return res
}

// StoreScanned catalogues every StatusNew record of a previously produced
// scan, returning the stored aggregates.  Files that fail at this stage are
// reported through the error but do not stop the remaining stores.
func (s *Service) StoreScanned(ctx context.Context, results []FileResult) ([]*potential.PotentialFile, error) {
	var stored []*potential.PotentialFile
	var firstErr error
	for _, res := range results {
		if res.Status != StatusNew || res.Record == nil {
			continue
		}
		pf, err := s.Store(ctx, res.Record)
		if err != nil {
			s.log.Error("failed to store potential",
				logging.String("path", res.Path), logging.Err(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stored = append(stored, pf)
	}
	return stored, firstErr
}

// AddFamily scans root and immediately catalogues every new potential.
// It is the non-interactive variant of the scan-confirm-store flow.
func (s *Service) AddFamily(ctx context.Context, root string) ([]*potential.PotentialFile, Summary, error) {
	results, err := s.ScanFamily(ctx, root)
	if err != nil {
		return nil, Summary{}, err
	}
	stored, err := s.StoreScanned(ctx, results)
	return stored, Summarize(results), err
}

// findPotcarFiles walks root collecting every regular file named POTCAR.
func findPotcarFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "POTCAR" {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			paths = append(paths, abs)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIOError,
			fmt.Sprintf("failed to scan library tree '%s'", root))
	}
	return paths, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// List returns every catalogued potential matching the filter.
func (s *Service) List(ctx context.Context, filter pottypes.TagFilter) ([]*potential.PotentialFile, error) {
	return s.repo.FindByTags(ctx, filter)
}

// Count returns the total number of catalogued potentials.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// ShowContents returns a stored potential's contents: by default only the
// header region, or everything when full is set.
func (s *Service) ShowContents(ctx context.Context, id uuid.UUID, full bool) (string, error) {
	pf, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	raw, err := s.store.Get(ctx, pf.ObjectKey)
	if err != nil {
		return "", err
	}
	if full {
		return string(raw), nil
	}
	header := potential.HeaderRegion(string(raw))
	if header == "" {
		return "", errors.Newf(errors.CodePotentialHeaderMissing,
			"failed to locate the header in the stored contents of %s "+
				"(use --full to show the contents anyway)", pf.ID)
	}
	return header, nil
}
