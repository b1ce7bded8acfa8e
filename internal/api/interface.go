package api

import (
	"context"
	"io"

	"github.com/insightdelivered/statement-normalizer/internal/config"
	"github.com/insightdelivered/statement-normalizer/internal/logger"
	"github.com/insightdelivered/statement-normalizer/internal/models"
	"github.com/insightdelivered/statement-normalizer/internal/statement"
)

// Converter turns an uploaded export into a statement.
// The handlers depend on this interface, not on the assembler.
//
//go:generate mockgen -destination=mocks/mock_converter.go -package=mocks -source=interface.go Converter
type Converter interface {
	Convert(ctx context.Context, format models.Format, r io.Reader) (*models.Statement, error)
}

// AssemblerConverter runs a fresh assembler per call with the settings
// configured for the requested format. It logs through the logger carried
// by ctx.
type AssemblerConverter struct {
	Config *config.Config
}

func (c *AssemblerConverter) Convert(ctx context.Context, format models.Format, r io.Reader) (*models.Statement, error) {
	cfg := c.Config
	if cfg == nil {
		cfg = config.Default()
	}
	a := statement.New(cfg.For(format), statement.WithLogger(logger.FromContext(ctx)))
	return a.Assemble(ctx, format, r)
}
