package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/api"
	"github.com/AlharbiAbdullah/Cortex/internal/config"
)

// backendEnv is what every backend-facing command starts from
type backendEnv struct {
	cfg      config.Config
	client   *api.Client
	logger   *slog.Logger
	closeLog func() error
}

func newBackendEnv(cmd *cobra.Command, interactive bool) (*backendEnv, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := setupLogger(cmd, cfg, interactive)
	if err != nil {
		return nil, err
	}

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug("backend configured", "api_url", cfg.APIURL, "expert", cfg.DefaultExpert, "model", cfg.DefaultModel)
	return &backendEnv{cfg: cfg, client: client, logger: logger, closeLog: closeLog}, nil
}

func (e *backendEnv) Close() {
	_ = e.closeLog()
}
