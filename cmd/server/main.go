package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"invoicer/internal/config"
	"invoicer/internal/handler"
	"invoicer/internal/port"
	"invoicer/internal/repository/postgres"
	"invoicer/internal/router"
	"invoicer/internal/service"
	s3storage "invoicer/internal/storage/s3"
	"invoicer/internal/validator/invoice"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	importRepo := postgres.NewImportRepo(db)
	settingsRepo := postgres.NewSettingsRepo(db)

	// Initialize storage
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		log.Println("S3 bucket not configured, uploaded files will not be archived")
	}

	// Advisory GST checks, with HSN master checks when enabled
	var lookup *invoice.HSNLookup
	ready := handler.ReadyInfo{ArchiveBucket: cfg.S3.Bucket}
	if cfg.Import.CheckHSN {
		entries, err := postgres.NewHSNRepo(db).LoadEffective(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("failed to load HSN codes: %w", err)
		}
		lookup = invoice.NewHSNLookup(entries)
		ready.HSNCodes = lookup.Len()
		log.Printf("Loaded %d HSN codes", ready.HSNCodes)
	}
	validator := invoice.NewValidator(lookup)

	// Initialize services
	settingsSvc := service.NewSettingsService(settingsRepo, service.DefaultSettings(cfg))
	importSvc := service.NewImportService(invoiceRepo, importRepo, settingsSvc, storage, validator, &cfg.S3, &cfg.Import)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, validator)

	// Setup router
	r := router.Setup(router.Handlers{
		Health:   handler.NewHealthHandler(db, ready),
		Import:   handler.NewImportHandler(importSvc),
		Invoice:  handler.NewInvoiceHandler(invoiceSvc),
		Settings: handler.NewSettingsHandler(settingsSvc),
	}, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: cfg.Import.MaxFileSizeMB * 1024 * 1024,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
