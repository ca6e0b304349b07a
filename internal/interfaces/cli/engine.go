package cli

import (
	"context"

	"github.com/turtacn/SynthLaw/internal/application/analysis"
	"github.com/turtacn/SynthLaw/internal/domain/contract"
	"github.com/turtacn/SynthLaw/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SynthLaw/internal/infrastructure/storage/minio"
	"github.com/turtacn/SynthLaw/internal/intelligence/legal_gpt"
)

// newArchive opens the report archive for local runs. Overridden in tests.
var newArchive = func(ctx context.Context, cfg minio.Config, logger logging.Logger) (analysis.Archive, error) {
	c, err := minio.NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return minio.NewReportArchive(c), nil
}

// localService builds an in-process analysis service from the loaded config.
// Without an API key the collaborator falls back on every call. The archive
// is attached only when enabled.
func localService(ctx context.Context, cliCtx *CLIContext) (*analysis.Service, error) {
	cfg := cliCtx.Config
	catalog, err := contract.NewCatalog(cfg.Analysis.Catalog)
	if err != nil {
		return nil, err
	}

	opts := []analysis.Option{analysis.WithConfig(cfg.Analysis)}
	collab := legal_gpt.NewCollaborator(cfg.LegalGPT, cliCtx.Logger)
	opts = append(opts,
		analysis.WithEmailDrafter(collab),
		analysis.WithEnricher(collab),
		analysis.WithTranslator(collab),
	)
	if cfg.Archive.Enabled {
		archive, err := newArchive(ctx, cfg.Archive, cliCtx.Logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, analysis.WithArchive(archive))
	}
	return analysis.NewService(contract.NewDetector(catalog), cliCtx.Logger, opts...), nil
}
