package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
)

// Finding is one suspicious file discovered by a library check.
type Finding struct {
	// Path is the absolute location of the file.
	Path string

	// Record is the parsed potential; nil when parsing failed outright.
	Record *potential.Record

	// Violations lists the failed validity criteria; empty when the file
	// could not even be parsed.
	Violations []string

	// Err holds the resolution or parsing failure, if any.
	Err error
}

// String renders the finding as one diagnostic line suitable for review:
// the file location followed by the parsed element, version and canonical
// label so a curator can spot the misparse at a glance.
func (f Finding) String() string {
	if f.Record == nil {
		return fmt.Sprintf("%s: %v", f.Path, f.Err)
	}
	return fmt.Sprintf("%s: %s %d (%s)",
		f.Path, f.Record.Element, f.Record.Version, f.Record.QuirkKey())
}

// Checker scans library trees for potential files whose parsed identity
// fails the validity criteria, surfacing candidates for new quirk entries.
type Checker struct {
	parser  *potential.Parser
	workers int
	log     logging.Logger
}

// NewChecker constructs a library checker.
func NewChecker(parser *potential.Parser, workers int, log logging.Logger) *Checker {
	if workers < 1 {
		workers = 1
	}
	return &Checker{parser: parser, workers: workers, log: log.Named("check")}
}

// CheckLibrary walks root, parses every POTCAR file it finds, and returns a
// finding for each file that fails to parse or whose record violates a
// validity criterion.  Healthy files produce no finding.
func (c *Checker) CheckLibrary(ctx context.Context, root string) ([]Finding, error) {
	paths, err := findPotcarFiles(root)
	if err != nil {
		return nil, err
	}

	findings := make([]*Finding, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			findings[i] = c.checkFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Finding
	for _, f := range findings {
		if f != nil {
			out = append(out, *f)
		}
	}
	c.log.Info("library check complete",
		logging.Int("scanned", len(paths)),
		logging.Int("findings", len(out)))
	return out, nil
}

// checkFile returns a finding for path, or nil when the file is healthy.
func (c *Checker) checkFile(path string) *Finding {
	id, err := potential.ResolvePath(path)
	if err != nil {
		return &Finding{Path: path, Err: err}
	}
	rec, err := c.parser.ParseFile(path, id)
	if err != nil {
		return &Finding{Path: path, Err: err}
	}
	violations := potential.ValidityViolations(rec)
	if len(violations) == 0 {
		return nil
	}
	return &Finding{Path: path, Record: rec, Violations: violations}
}
