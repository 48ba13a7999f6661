package domain

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
	ErrUnsupportedSourceType  = errors.New("unsupported file type")
	ErrFileTooLarge           = errors.New("file exceeds maximum allowed size")
	ErrNoDataRows             = errors.New("file contains no data rows")
	ErrMalformedSource        = errors.New("file could not be parsed")
	ErrInvalidInvoiceData     = errors.New("invoice data is invalid")
	ErrInvoiceNumberExhausted = errors.New("could not allocate a free invoice number")
	ErrInvalidGroupingMode    = errors.New("invalid grouping mode")
	ErrInvalidSettings        = errors.New("settings are invalid")
	ErrArchiveFailed          = errors.New("source file upload to storage failed")
)
