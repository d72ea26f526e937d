package services

import (
	"os"
	"os/exec"
	"sync"

	"freshpress-pos/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// PrinterService sends receipt files to the configured system printer.
type PrinterService struct {
	mu   sync.Mutex
	name string
}

// NewPrinterService creates a printer service with no printer selected
func NewPrinterService(name string) *PrinterService {
	return &PrinterService{name: name}
}

// SetPrinter selects the system printer receipts go to.
func (s *PrinterService) SetPrinter(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

// Printer returns the currently selected printer name.
func (s *PrinterService) Printer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Print sends a prepared receipt file to the selected printer through
// the system spooler.
func (s *PrinterService) Print(path string) error {
	s.mu.Lock()
	name := s.name
	s.mu.Unlock()

	if name == "" {
		return domain.E(domain.KindPrinterNotSet, "no printer selected")
	}
	if _, err := os.Stat(path); err != nil {
		return domain.WrapErr(domain.KindIOError, err, "receipt file %s", path)
	}
	lp, err := exec.LookPath("lp")
	if err != nil {
		return domain.E(domain.KindPrinterNotFound, "print spooler not available")
	}

	out, err := exec.Command(lp, "-d", name, path).CombinedOutput()
	if err != nil {
		return domain.WrapErr(domain.KindPrintError, err, "print failed: %s", string(out))
	}
	log.Debug().Str("printer", name).Str("file", path).Msg("receipt printed")
	return nil
}
