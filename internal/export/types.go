// Package export provides member roster export functionality for PDF and DOCX formats.
package export

import (
	"errors"
	"time"
)

// Format represents the export output format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Request contains parameters for an export operation
type Request struct {
	ParentID   string
	ParentType string // "workspace" or "conversation"
	Format     Format
}

// Member represents one roster row for export
type Member struct {
	DisplayName string
	Email       string
	Role        string
	JoinedAt    time.Time
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrRosterUnavailable indicates the roster could not be loaded for export.
	ErrRosterUnavailable = errors.New("export roster unavailable")
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
	// ErrDOCXDependencyMissing indicates DOCX export runtime dependencies are unavailable.
	ErrDOCXDependencyMissing = errors.New("export docx dependency missing")
)
