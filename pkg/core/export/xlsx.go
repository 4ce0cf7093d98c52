package export

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// Extension of the files written by XLSXSink.
const Extension = ".xlsx"

// SheetName is the worksheet holding the rows.
const SheetName = "Episodes"

// Header is the first row of every export.
var Header = []string{"Name", "Description", "File name", "Link", "Command"}

// Row is one exported episode. Link and Command are empty for episodes whose link could not be resolved.
type Row struct {
	Name        string
	Description string
	FileName    string
	Link        string
	Command     string
}

func (r Row) values() []interface{} {
	return []interface{}{r.Name, r.Description, r.FileName, r.Link, r.Command}
}

// Sink receives rows and persists them on Save. Close releases resources and must be
// called on every path once the sink exists.
type Sink interface {
	WriteRow(row Row) error
	Save() error
	Close() error
	Path() string
}

// XLSXSink writes rows to an in-memory workbook and stores it on an afero filesystem.
type XLSXSink struct {
	fs     afero.Fs
	path   string
	file   *excelize.File
	next   int // Next row index, 1-based
	closed bool
	logger *log.Logger
}

// NewXLSX creates a workbook destined for path with a bold header row. Nothing is written
// to disk until Save.
func NewXLSX(fs afero.Fs, path string, logger *log.Logger) (*XLSXSink, error) {
	if logger == nil {
		logger = log.New()
		logger.SetOutput(os.Stderr)
	}

	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", SheetName); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := file.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := file.SetCellStyle(SheetName, "A1", "E1", style); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	_ = file.SetColWidth(SheetName, "A", "C", 40)
	_ = file.SetColWidth(SheetName, "D", "E", 60)

	return &XLSXSink{fs: fs, path: path, file: file, next: 2, logger: logger}, nil
}

// Path returns the destination file.
func (s *XLSXSink) Path() string { return s.path }

// Rows returns the number of data rows written so far.
func (s *XLSXSink) Rows() int { return s.next - 2 }

// WriteRow appends row below the previous one.
func (s *XLSXSink) WriteRow(row Row) error {
	if s.closed {
		return fmt.Errorf("sink for %s is closed", s.path)
	}
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		return err
	}
	values := row.values()
	if err := s.file.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", s.next, err)
	}
	s.next++
	return nil
}

// Save writes the workbook to its path, replacing the file if it exists.
func (s *XLSXSink) Save() error {
	if s.closed {
		return fmt.Errorf("sink for %s is closed", s.path)
	}
	out, err := s.fs.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.path, err)
	}
	n, err := s.file.WriteTo(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	s.logger.WithField("rows", s.Rows()).Infof("=> Saved to %s (%s)", s.path, humanize.Bytes(uint64(n)))
	return nil
}

// Close releases the workbook. Safe to call more than once.
func (s *XLSXSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
