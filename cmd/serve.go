package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-normalizer/internal/api"
)

var (
	addrFlag    string
	uploadLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app := newApp()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addrFlag).Msg("listening")
			errCh <- app.Listen(addrFlag)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&addrFlag, "addr", ":8080", "Listen address")
	serveCmd.Flags().IntVar(&uploadLimit, "upload-limit", 32, "Maximum upload size in MiB")
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statement-normalizer",
		BodyLimit:             uploadLimit << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	h := &api.Handler{
		Converter: &api.AssemblerConverter{Config: cfg},
		Log:       log,
		Version:   Version,
	}
	h.RegisterRoutes(app)
	return app
}
