package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/potvault/internal/application/catalog"
	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/infrastructure/database/postgres"
	"github.com/turtacn/potvault/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/potvault/internal/infrastructure/database/redis"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/internal/infrastructure/storage/minio"
)

// backends bundles the infrastructure a catalog-touching command needs.
type backends struct {
	svc   *catalog.Service
	asm   *catalog.Assembler
	repo  potential.Repository
	store potential.ContentStore
	log   logging.Logger

	conn *postgres.Connection
}

// close releases every held connection.
func (b *backends) close() {
	if b.conn != nil {
		b.conn.Close()
	}
}

// openCatalog connects to the catalog database, cache and object archive and
// wires the application services on top of them.  Commands that only parse
// local files (check) never call this.
func openCatalog(cmd *cobra.Command) (*backends, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	cfg, log := cliCtx.Config, cliCtx.Logger
	ctx := cmd.Context()

	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	var repo potential.Repository = repositories.NewPotentialRepository(conn.Pool(), log)
	if client, err := redis.NewClient(ctx, cfg.Redis, log); err != nil {
		// The cache is an accelerator; the catalog works without it.
		log.Warn("cache unavailable, continuing without it", logging.Err(err))
	} else {
		repo = redis.NewCachingRepository(repo, client,
			cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL, log)
	}

	store, err := minio.NewArchive(ctx, cfg.MinIO, log)
	if err != nil {
		conn.Close()
		return nil, err
	}

	parser := potential.NewParser(log)
	return &backends{
		svc:   catalog.NewService(repo, store, parser, cfg.Library.Workers, log),
		asm:   catalog.NewAssembler(repo, store, log),
		repo:  repo,
		store: store,
		log:   log,
		conn:  conn,
	}, nil
}
