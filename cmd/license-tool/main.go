// Command license-tool drives the license engine from the command line:
// checking, activating, deactivating, and the offline activation handshake.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"licensekit/internal/config"
	"licensekit/internal/infrastructure"
	"licensekit/internal/license"
	transporthttp "licensekit/internal/transport/http"
)

const usage = `usage: license-tool [flags] <command>

commands:
  status           print the current license status
  check            re-check the stored license token
  activate         run the in-browser activation flow
  deactivate       revoke the license and remove the token
  offline-request  write an offline activation request file
  offline-receive  install a license token file received out of band
  serve            serve the license API for a local host UI

flags:
`

func main() {
	configPath := flag.String("config", "", "path to YAML config (env-only when empty)")
	retries := flag.Int("retries", 120, "activation poll budget in seconds")
	interval := flag.Int("interval", 5, "seconds between activation polls")
	dest := flag.String("dest", "", "destination for offline-request (defaults to the license dir)")
	tokenPath := flag.String("token", "", "token file for offline-receive")
	addr := flag.String("addr", "127.0.0.1:39705", "listen address for serve")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	engine, err := license.New(cfg.License)
	if err != nil {
		logger.Error("failed to construct license engine", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	switch command {
	case "status":
		printJSON(engine.Status())
	case "check":
		active := engine.CheckForExisting(ctx)
		printJSON(engine.Status())
		if !active {
			os.Exit(1)
		}
	case "activate":
		result := engine.RequestActivation(ctx, *retries, *interval)
		fmt.Println(result)
		printJSON(engine.Status())
		if result != license.ActivationSuccess {
			os.Exit(1)
		}
	case "deactivate":
		if err := engine.Deactivate(ctx); err != nil {
			logger.Error("deactivation failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println("license revoked")
	case "offline-request":
		path := *dest
		if path == "" {
			path = filepath.Join(cfg.License.LicenseDir, config.OfflineRequestFileName)
		}
		if err := engine.GenerateOfflineDeviceToken(path); err != nil {
			logger.Error("failed to write offline activation request", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println(path)
	case "offline-receive":
		if *tokenPath == "" {
			logger.Error("offline-receive requires -token")
			os.Exit(2)
		}
		active, err := engine.ReceiveOfflineLicenseToken(ctx, *tokenPath)
		if err != nil {
			logger.Error("failed to install offline token", slog.String("error", err.Error()))
			os.Exit(1)
		}
		printJSON(engine.Status())
		if !active {
			os.Exit(1)
		}
	case "serve":
		router := chi.NewRouter()
		router.Mount("/api/license", transporthttp.NewLicenseHandler(engine, logger).Routes())
		logger.Info("serving license API", slog.String("addr", *addr))
		if err := http.ListenAndServe(*addr, router); err != nil {
			logger.Error("server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Error("failed to encode output", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(string(data))
}
