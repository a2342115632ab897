// Package repositories contains the PostgreSQL implementations of the domain
// repository contracts.
package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// uniqueViolation is the SQLSTATE raised when the (name, functional, version)
// unique index rejects an insert.
const uniqueViolation = "23505"

// potentialColumns is the column list shared by every SELECT.
const potentialColumns = `id, name, element, version, functional,
       fingerprint, title, object_key, created_at, updated_at`

// ─────────────────────────────────────────────────────────────────────────────
// PotentialRepository
// ─────────────────────────────────────────────────────────────────────────────

// PotentialRepository is the PostgreSQL implementation of the potential
// domain's Repository interface.
type PotentialRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewPotentialRepository constructs a ready-to-use PotentialRepository.
func NewPotentialRepository(pool *pgxpool.Pool, log logging.Logger) *PotentialRepository {
	return &PotentialRepository{pool: pool, log: log.Named("potential_repo")}
}

// ─────────────────────────────────────────────────────────────────────────────
// Save
// ─────────────────────────────────────────────────────────────────────────────

// Save inserts a new catalog row.  The unique index on (name, functional,
// version) is the last line of defence against identifier collisions; its
// violation surfaces as errors.CodeConflict.
func (r *PotentialRepository) Save(ctx context.Context, pf *potential.PotentialFile) error {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO potentials (
			id, name, element, version, functional,
			fingerprint, title, object_key, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		pf.ID, pf.Name, pf.Element, pf.Version, string(pf.Functional),
		pf.Fingerprint, pf.Title, pf.ObjectKey, now, now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.Wrap(err, errors.CodeConflict, fmt.Sprintf(
				"potential (%s, %d, %s) is already catalogued",
				pf.Name, pf.Version, pf.Functional))
		}
		r.log.Error("insert failed",
			logging.String("name", pf.Name), logging.Err(err))
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to insert potential")
	}
	pf.CreatedAt = now
	pf.UpdatedAt = now
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FindByID
// ─────────────────────────────────────────────────────────────────────────────

func (r *PotentialRepository) FindByID(ctx context.Context, id uuid.UUID) (*potential.PotentialFile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+potentialColumns+` FROM potentials WHERE id = $1`, id)

	pf, err := scanPotential(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Newf(errors.CodePotentialNotFound,
				"no potential with ID %s is catalogued", id)
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query potential")
	}
	return pf, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FindByTags
// ─────────────────────────────────────────────────────────────────────────────

// FindByTags builds a WHERE clause from whichever filter fields are set.
// Results are ordered newest version first for stable output.
func (r *PotentialRepository) FindByTags(ctx context.Context, filter pottypes.TagFilter) ([]*potential.PotentialFile, error) {
	if filter.Empty() {
		return nil, errors.New(errors.CodeCatalogEmptyFilter,
			"at least one query tag is required")
	}

	var (
		clauses []string
		args    []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.Name != nil {
		add("name", *filter.Name)
	}
	if filter.Element != nil {
		add("element", *filter.Element)
	}
	if filter.Functional != nil {
		add("functional", string(*filter.Functional))
	}
	if filter.Version != nil {
		add("version", *filter.Version)
	}
	if filter.Fingerprint != nil {
		add("fingerprint", *filter.Fingerprint)
	}

	query := `SELECT ` + potentialColumns + ` FROM potentials WHERE ` +
		strings.Join(clauses, " AND ") +
		` ORDER BY name, functional, version DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("tag query failed",
			logging.String("filter", filter.String()), logging.Err(err))
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query potentials")
	}
	defer rows.Close()

	var out []*potential.PotentialFile
	for rows.Next() {
		pf, err := scanPotential(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan potential row")
		}
		out = append(out, pf)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to iterate potential rows")
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Count
// ─────────────────────────────────────────────────────────────────────────────

func (r *PotentialRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM potentials`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.CodeDatabaseError, "failed to count potentials")
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row scanning
// ─────────────────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPotential(row scanner) (*potential.PotentialFile, error) {
	var (
		pf         potential.PotentialFile
		functional string
	)
	err := row.Scan(&pf.ID, &pf.Name, &pf.Element, &pf.Version, &functional,
		&pf.Fingerprint, &pf.Title, &pf.ObjectKey, &pf.CreatedAt, &pf.UpdatedAt)
	if err != nil {
		return nil, err
	}
	pf.Functional = pottypes.Functional(functional)
	return &pf, nil
}
