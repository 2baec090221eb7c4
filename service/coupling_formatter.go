package service

import (
	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/reporter"
)

// CouplingFormatterImpl implements domain.CouplingFormatter by delegating to
// internal/reporter, the same way the CLI and MCP layers do.
type CouplingFormatterImpl struct {
	reporter *reporter.Reporter
}

// NewCouplingFormatter creates a CouplingFormatterImpl.
func NewCouplingFormatter() *CouplingFormatterImpl {
	return &CouplingFormatterImpl{reporter: reporter.New()}
}

// Format renders resp in the requested format.
func (f *CouplingFormatterImpl) Format(resp *domain.CouplingResponse, format domain.OutputFormat) (string, error) {
	return f.reporter.Format(resp, format)
}
