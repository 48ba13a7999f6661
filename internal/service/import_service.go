package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"invoicer/internal/config"
	"invoicer/internal/domain"
	"invoicer/internal/importer"
	"invoicer/internal/mapper"
	"invoicer/internal/numbering"
	"invoicer/internal/port"
	"invoicer/internal/validator/invoice"
)

// maxCreateAttempts bounds retries when a concurrent import claims an invoice number.
const maxCreateAttempts = 3

// ImportInput is the DTO for preview and commit requests.
type ImportInput struct {
	FileName string
	Content  io.Reader
	Size     int64
	// GroupingMode overrides the configured mode when set.
	GroupingMode domain.GroupingMode
}

// PreviewInvoice is one mapped invoice with its advisory findings.
type PreviewInvoice struct {
	Invoice         *domain.InvoiceData `json:"invoice"`
	Warnings        []invoice.Warning   `json:"warnings"`
	AlreadyImported bool                `json:"already_imported"`
}

// PreviewResult describes what a commit of the same file would create.
type PreviewResult struct {
	FileName     string              `json:"file_name"`
	SourceType   domain.SourceType   `json:"source_type"`
	GroupingMode domain.GroupingMode `json:"grouping_mode"`
	RowCount     int                 `json:"row_count"`
	Headers      []string            `json:"headers"`
	Metafields   []string            `json:"metafields"`
	Invoices     []PreviewInvoice    `json:"invoices"`
}

// SkippedOrder is an order left out of a commit.
type SkippedOrder struct {
	OrderNo string `json:"order_no"`
	Reason  string `json:"reason"`
}

// CommitResult is the outcome of a committed import.
type CommitResult struct {
	Batch    *domain.ImportBatch `json:"batch"`
	Invoices []domain.Invoice    `json:"invoices"`
	Skipped  []SkippedOrder      `json:"skipped"`
}

// ImportService turns uploaded order exports into invoices.
type ImportService interface {
	Preview(ctx context.Context, input ImportInput) (*PreviewResult, error)
	Commit(ctx context.Context, input ImportInput) (*CommitResult, error)
	ListBatches(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*domain.ImportBatch, error)
	GetSourceURL(ctx context.Context, id uuid.UUID) (string, error)
}

type importService struct {
	invoiceRepo port.InvoiceRepository
	importRepo  port.ImportRepository
	settings    SettingsService
	storage     port.ObjectStorage
	validator   *invoice.Validator
	s3Cfg       *config.S3Config
	importCfg   *config.ImportConfig
}

// NewImportService creates a new ImportService implementation. A nil storage
// disables archiving of uploaded files.
func NewImportService(
	invoiceRepo port.InvoiceRepository,
	importRepo port.ImportRepository,
	settings SettingsService,
	storage port.ObjectStorage,
	validator *invoice.Validator,
	s3Cfg *config.S3Config,
	importCfg *config.ImportConfig,
) ImportService {
	if validator == nil {
		validator = invoice.NewValidator(nil)
	}
	return &importService{
		invoiceRepo: invoiceRepo,
		importRepo:  importRepo,
		settings:    settings,
		storage:     storage,
		validator:   validator,
		s3Cfg:       s3Cfg,
		importCfg:   importCfg,
	}
}

// loadedImport is a parsed upload plus everything derived from it.
type loadedImport struct {
	fileName   string
	sourceType domain.SourceType
	mode       domain.GroupingMode
	content    []byte
	data       *mapper.ParsedData
	settings   *domain.Settings
	invoices   []*domain.InvoiceData
	// existing marks order numbers that already have a stored invoice.
	existing map[string]bool
}

func (s *importService) load(ctx context.Context, input ImportInput) (*loadedImport, error) {
	mode := input.GroupingMode
	if mode == "" {
		mode = domain.GroupingMode(s.importCfg.GroupingMode)
	}
	if mode != domain.GroupingByOrder && mode != domain.GroupingByRow {
		return nil, domain.ErrInvalidGroupingMode
	}

	maxBytes := s.importCfg.MaxFileSizeMB * 1024 * 1024
	if input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	sourceType, err := importer.DetectSourceType(input.FileName)
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(io.LimitReader(input.Content, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(content)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := importer.ParseBytes(content, sourceType)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Numbers are allocated after skipping known orders so that skipped
	// orders do not consume counter values.
	m := mapper.New(mapper.Options{
		Business:   settings.Business,
		DefaultHSN: settings.DefaultHSN,
		IssueDate:  time.Now(),
	})
	var invoices []*domain.InvoiceData
	if mode == domain.GroupingByRow {
		invoices = m.MapRows(data)
	} else {
		invoices = m.MapOrders(data)
	}

	existing := make(map[string]bool)
	for _, inv := range invoices {
		orderNo := inv.Metadata.OrderNo
		if _, checked := existing[orderNo]; checked || inv.Metadata.OrderNoGenerated {
			continue
		}
		found, err := s.invoiceRepo.OrderExists(ctx, orderNo)
		if err != nil {
			return nil, fmt.Errorf("checking order %s: %w", orderNo, err)
		}
		existing[orderNo] = found
	}

	log.Printf("importService.load: %s (%s) %d rows -> %d invoices, grouping %s",
		input.FileName, sourceType, len(data.Rows), len(invoices), mode)

	return &loadedImport{
		fileName:   filepath.Base(input.FileName),
		sourceType: sourceType,
		mode:       mode,
		content:    content,
		data:       data,
		settings:   settings,
		invoices:   invoices,
		existing:   existing,
	}, nil
}

// assignNumbers gives every new invoice a unique invoice number.
func (s *importService) assignNumbers(ctx context.Context, seq *numbering.Sequencer, l *loadedImport, reserved map[string]bool) error {
	for _, inv := range l.invoices {
		if l.existing[inv.Metadata.OrderNo] {
			continue
		}
		orderNo := inv.Metadata.OrderNo
		if inv.Metadata.OrderNoGenerated {
			orderNo = ""
		}
		no, err := numbering.EnsureUnique(ctx, s.invoiceRepo, seq.InvoiceNumberFor(orderNo), reserved)
		if err != nil {
			return err
		}
		reserved[no] = true
		inv.Metadata.InvoiceNo = no
	}
	return nil
}

func (s *importService) Preview(ctx context.Context, input ImportInput) (*PreviewResult, error) {
	l, err := s.load(ctx, input)
	if err != nil {
		return nil, err
	}
	seq := numbering.NewSequencer(l.settings.Numbering)
	if err := s.assignNumbers(ctx, seq, l, make(map[string]bool)); err != nil {
		return nil, err
	}

	result := &PreviewResult{
		FileName:     l.fileName,
		SourceType:   l.sourceType,
		GroupingMode: l.mode,
		RowCount:     len(l.data.Rows),
		Headers:      l.data.Headers,
		Metafields:   l.data.Metafields,
		Invoices:     make([]PreviewInvoice, 0, len(l.invoices)),
	}
	for _, inv := range l.invoices {
		result.Invoices = append(result.Invoices, PreviewInvoice{
			Invoice:         inv,
			Warnings:        s.validator.Warnings(inv),
			AlreadyImported: l.existing[inv.Metadata.OrderNo],
		})
	}
	return result, nil
}

func (s *importService) Commit(ctx context.Context, input ImportInput) (*CommitResult, error) {
	l, err := s.load(ctx, input)
	if err != nil {
		return nil, err
	}
	seq := numbering.NewSequencer(l.settings.Numbering)
	reserved := make(map[string]bool)
	if err := s.assignNumbers(ctx, seq, l, reserved); err != nil {
		return nil, err
	}

	result := &CommitResult{Invoices: []domain.Invoice{}, Skipped: []SkippedOrder{}}
	var toCreate []*domain.InvoiceData
	for _, inv := range l.invoices {
		if l.existing[inv.Metadata.OrderNo] {
			result.Skipped = append(result.Skipped, SkippedOrder{
				OrderNo: inv.Metadata.OrderNo,
				Reason:  "an invoice already exists for this order",
			})
			continue
		}
		toCreate = append(toCreate, inv)
	}

	batch := &domain.ImportBatch{
		ID:           uuid.New(),
		FileName:     l.fileName,
		SourceType:   l.sourceType,
		GroupingMode: l.mode,
		RowCount:     len(l.data.Rows),
		InvoiceCount: len(toCreate),
		SkippedCount: len(result.Skipped),
	}
	if err := s.archive(ctx, batch, l.content); err != nil {
		return nil, err
	}
	if err := s.importRepo.Create(ctx, batch); err != nil {
		s.discardArchive(ctx, batch)
		return nil, fmt.Errorf("recording import batch: %w", err)
	}
	result.Batch = batch

	for _, data := range toCreate {
		inv, err := s.createInvoice(ctx, data, batch.ID, reserved)
		if err != nil {
			log.Printf("importService.Commit: batch %s stopped after %d of %d invoices: %v",
				batch.ID, len(result.Invoices), len(toCreate), err)
			// Invoices already written stay; the batch and counter must agree with them.
			batch.InvoiceCount = len(result.Invoices)
			if uerr := s.importRepo.UpdateCounts(ctx, batch.ID, batch.InvoiceCount, batch.SkippedCount); uerr != nil {
				log.Printf("importService.Commit: recording partial batch %s failed: %v", batch.ID, uerr)
			}
			s.advanceCounter(ctx, seq, l.settings.Numbering.NextNumber)
			return nil, fmt.Errorf("persisting invoice for order %s: %w", data.Metadata.OrderNo, err)
		}
		result.Invoices = append(result.Invoices, *inv)
	}

	s.advanceCounter(ctx, seq, l.settings.Numbering.NextNumber)

	log.Printf("importService.Commit: batch %s created %d invoices, skipped %d orders",
		batch.ID, len(result.Invoices), len(result.Skipped))
	return result, nil
}

// advanceCounter persists the sequencer's counter when it moved past from.
func (s *importService) advanceCounter(ctx context.Context, seq *numbering.Sequencer, from int64) {
	next := seq.Next()
	if next <= from {
		return
	}
	if err := s.settings.AdvanceCounter(ctx, next); err != nil {
		// Issued numbers are already unique; a stale counter only costs extra lookups.
		log.Printf("importService.Commit: advancing counter to %d failed: %v", next, err)
	}
}

func (s *importService) createInvoice(ctx context.Context, data *domain.InvoiceData, batchID uuid.UUID, reserved map[string]bool) (*domain.Invoice, error) {
	for attempt := 1; ; attempt++ {
		inv, err := domain.NewInvoice(data, &batchID)
		if err != nil {
			return nil, err
		}
		err = s.invoiceRepo.Create(ctx, inv)
		if err == nil {
			return inv, nil
		}
		if !errors.Is(err, domain.ErrDuplicateInvoiceNumber) || attempt == maxCreateAttempts {
			return nil, err
		}
		// Another import took the number between allocation and insert.
		reserved[data.Metadata.InvoiceNo] = true
		no, err := numbering.EnsureUnique(ctx, s.invoiceRepo, numbering.Increment(data.Metadata.InvoiceNo), reserved)
		if err != nil {
			return nil, err
		}
		reserved[no] = true
		data.Metadata.InvoiceNo = no
	}
}

func (s *importService) archive(ctx context.Context, batch *domain.ImportBatch, content []byte) error {
	if s.storage == nil {
		return nil
	}
	key := fmt.Sprintf("imports/%s/%s", batch.ID, batch.FileName)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(content),
		ContentType: domain.SourceContentTypes[batch.SourceType],
		Size:        int64(len(content)),
		Metadata: map[string]string{
			"import-id":     batch.ID.String(),
			"source-type":   string(batch.SourceType),
			"grouping-mode": string(batch.GroupingMode),
		},
	})
	if err != nil {
		log.Printf("importService.archive: upload of %s failed: %v", key, err)
		return domain.ErrArchiveFailed
	}
	batch.S3Bucket = s.s3Cfg.Bucket
	batch.S3Key = key
	return nil
}

func (s *importService) discardArchive(ctx context.Context, batch *domain.ImportBatch) {
	if s.storage == nil || batch.S3Key == "" {
		return
	}
	if err := s.storage.Delete(ctx, batch.S3Bucket, batch.S3Key); err != nil {
		log.Printf("importService.discardArchive: deleting %s failed: %v", batch.S3Key, err)
	}
}

func (s *importService) ListBatches(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error) {
	return s.importRepo.List(ctx, offset, limit)
}

func (s *importService) GetBatch(ctx context.Context, id uuid.UUID) (*domain.ImportBatch, error) {
	return s.importRepo.GetByID(ctx, id)
}

func (s *importService) GetSourceURL(ctx context.Context, id uuid.UUID) (string, error) {
	batch, err := s.importRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.storage == nil || batch.S3Key == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, batch.S3Bucket, batch.S3Key, s.s3Cfg.PresignExpiry)
}
