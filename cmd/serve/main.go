// Command serve runs the HTTP conversion API used by the dashboard to
// preview an export before committing to an import.
package main

import (
	"flag"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/ovniasbl/compta-import/internal/api"
	"github.com/ovniasbl/compta-import/internal/config"
	"github.com/ovniasbl/compta-import/internal/importer"
	"github.com/ovniasbl/compta-import/internal/logger"
)

func main() {
	configFlag := flag.String("config", "", "Path to TOML config file")
	listenFlag := flag.String("listen", "", "Listen address (overrides config)")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	log := logger.New(*verboseFlag)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	listen := cfg.Server.Listen
	if *listenFlag != "" {
		listen = *listenFlag
	}

	imp := importer.New(importer.Options{
		DefaultYear: cfg.Import.DefaultYear,
		Log:         log,
	})

	app := fiber.New(fiber.Config{
		AppName:   "compta-import",
		BodyLimit: 32 << 20,
	})
	h := &api.Handler{Importer: imp, Log: log}
	h.Register(app)

	log.Info().Str("listen", listen).Msg("conversion API started")
	if err := app.Listen(listen); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
