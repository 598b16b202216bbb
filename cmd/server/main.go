package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-content-vault/internal/audit"
	"github.com/MKhiriev/go-content-vault/internal/classifier"
	"github.com/MKhiriev/go-content-vault/internal/config"
	"github.com/MKhiriev/go-content-vault/internal/crypto"
	"github.com/MKhiriev/go-content-vault/internal/deletion"
	httphandler "github.com/MKhiriev/go-content-vault/internal/handler/http"
	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/quarantine"
	"github.com/MKhiriev/go-content-vault/internal/server"
	"github.com/MKhiriev/go-content-vault/internal/store"
	"github.com/MKhiriev/go-content-vault/internal/vault"
	"github.com/MKhiriev/go-content-vault/internal/workers"
	"github.com/MKhiriev/go-content-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("content-vault-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	// catalog, event log and audit sink: sqlite when a DSN is configured,
	// process memory otherwise
	var (
		catalog store.CatalogStore
		events  store.EventStore
		sink    audit.Sink
	)
	if cfg.Storage.DB.DSN != "" {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.Storage.DB.DSN, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error opening catalog database")
		}
		defer sqliteStore.Close()
		catalog, events, sink = sqliteStore, sqliteStore, sqliteStore
	} else {
		log.Warn().Msg("no database configured, catalog is in-memory")
		catalog, events = store.NewMemoryCatalog(), store.NewMemoryEvents()
	}

	var blobs store.BlobStore
	if cfg.Storage.Blobs.Dir != "" {
		blobs, err = store.NewFileBlobStore(cfg.Storage.Blobs.Dir)
		if err != nil {
			log.Fatal().Err(err).Msg("error opening blob store")
		}
	} else {
		log.Warn().Msg("no blob directory configured, blobs are in-memory")
		blobs = store.NewMemoryBlobStore()
	}

	salt, err := loadOrCreateSalt(cfg.Storage.Blobs.Dir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error preparing key salt")
	}

	ledger := audit.NewLedger(sink, log)

	deleter := deletion.NewService(blobs, ledger, deletion.Config{
		DefaultMethod:     cfg.Deletion.DefaultMethod,
		MaxConcurrentJobs: cfg.Deletion.MaxConcurrentJobs,
		Retention:         cfg.Deletion.Retention,
	}, log)

	contentVault := vault.NewService(catalog, blobs, crypto.NewGCMEngine(),
		crypto.NewLocalKeyProvider(cfg.App.Passphrase, salt),
		deleter, ledger, vault.Config{MaxVaultSize: cfg.Vault.MaxSize}, log)
	if err := contentVault.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("error initializing vault")
	}

	var cls classifier.Classifier
	if cfg.Classifier.URL != "" {
		cls = classifier.NewHTTPClassifier(classifier.HTTPClientConfig{
			BaseURL: cfg.Classifier.URL,
			Timeout: cfg.Classifier.RequestTimeout,
		})
	} else {
		cls = classifier.NewRuleClassifier()
	}

	outbox := make(chan models.QuarantineEvent, 64)
	engine := quarantine.NewEngine(contentVault, cls, events, outbox, quarantine.Config{
		AllowPatterns:       cfg.Quarantine.AllowPatterns,
		DenyPatterns:        cfg.Quarantine.DenyPatterns,
		QuarantineThreshold: cfg.Quarantine.QuarantineThreshold,
		HighRiskThreshold:   cfg.Quarantine.HighRiskThreshold,
		AutoDeleteHighRisk:  cfg.Quarantine.AutoDeleteHighRisk,
	}, log)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	go audit.NewWorker(ledger, outbox).Run(workerCtx)

	background := workers.NewWorkers(
		workers.NewRescanSweeper(engine, cfg.Workers.RescanInterval, log),
		workers.NewHistoryJanitor(deleter, cfg.Workers.PruneInterval, log),
	)
	background.Run()
	defer background.Stop()

	handler := httphandler.NewHandler(contentVault, engine, deleter, ledger, httphandler.Settings{
		Version:       cfg.App.Version,
		Passphrase:    cfg.App.Passphrase,
		TokenSignKey:  cfg.App.TokenSignKey,
		TokenIssuer:   cfg.App.TokenIssuer,
		TokenDuration: cfg.App.TokenDuration,
	}, log)

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// loadOrCreateSalt returns the persisted Argon2id salt from dir, creating
// it on first run. With no directory configured the salt is ephemeral and
// stored content does not survive a restart.
func loadOrCreateSalt(dir string, log *logger.Logger) ([]byte, error) {
	if dir == "" {
		log.Warn().Msg("no blob directory configured, key salt is ephemeral")
		return crypto.GenerateSalt()
	}

	path := filepath.Join(dir, ".kek-salt")
	if salt, err := os.ReadFile(path); err == nil {
		return salt, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Msg("generated new key salt")
	return salt, nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
