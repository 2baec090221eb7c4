package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/ludo-technologies/gocoupling/domain"
)

type mockCouplingService struct {
	resp *domain.CouplingResponse
	err  error
}

func (m *mockCouplingService) Analyze(ctx context.Context, req domain.CouplingRequest) (*domain.CouplingResponse, error) {
	return m.resp, m.err
}

type mockCouplingFileReader struct {
	files []string
	err   error
}

func (m *mockCouplingFileReader) CollectRustFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.files != nil {
		return m.files, nil
	}
	return []string{"x.rs"}, nil
}
func (m *mockCouplingFileReader) ReadFile(path string) ([]byte, error)          { return nil, nil }
func (m *mockCouplingFileReader) IsValidRustFile(path string) bool             { return true }
func (m *mockCouplingFileReader) FileExists(path string) (bool, error)         { return true, nil }
func (m *mockCouplingFileReader) GetFileInfo(path string) (os.FileInfo, error) { return nil, nil }
func (m *mockCouplingFileReader) ValidatePaths(paths []string) error           { return nil }

type mockCouplingFormatter struct {
	called     bool
	lastFormat domain.OutputFormat
}

func (m *mockCouplingFormatter) Format(resp *domain.CouplingResponse, format domain.OutputFormat) (string, error) {
	m.called = true
	m.lastFormat = format
	return "ok", nil
}

type fakeReportWriter struct {
	called     bool
	lastPath   string
	lastFormat domain.OutputFormat
	err        error
}

func (mw *fakeReportWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, noOpen bool, writeFunc func(io.Writer) error) error {
	mw.called = true
	mw.lastPath = outputPath
	mw.lastFormat = format
	var buf bytes.Buffer
	if err := writeFunc(&buf); err != nil {
		return err
	}
	if mw.err != nil {
		return mw.err
	}
	return nil
}

func TestCouplingUseCase_Execute_Success(t *testing.T) {
	svc := &mockCouplingService{resp: &domain.CouplingResponse{Report: domain.ProjectBalanceReport{ModuleCount: 1}}}
	fr := &mockCouplingFileReader{files: []string{"a.rs"}}
	f := &mockCouplingFormatter{}
	out := &fakeReportWriter{}

	uc, err := NewCouplingUseCaseBuilder().
		WithService(svc).
		WithFileReader(fr).
		WithFormatter(f).
		WithOutputWriter(out).
		Build()
	if err != nil {
		t.Fatalf("build usecase: %v", err)
	}

	req := domain.CouplingRequest{Paths: []string{"."}, OutputWriter: &bytes.Buffer{}, OutputFormat: domain.OutputFormatText}
	if err := uc.Execute(context.Background(), req); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !out.called || !f.called {
		t.Fatalf("expected formatter and report writer to be called")
	}
}

func TestCouplingUseCase_Execute_InvalidRequest_NoPaths(t *testing.T) {
	uc := NewCouplingUseCase(&mockCouplingService{}, &mockCouplingFileReader{}, &mockCouplingFormatter{}, nil)
	err := uc.Execute(context.Background(), domain.CouplingRequest{Paths: []string{}, OutputWriter: &bytes.Buffer{}, OutputFormat: domain.OutputFormatText})
	if err == nil {
		t.Fatalf("expected error for empty paths")
	}
}

func TestCouplingUseCase_Execute_FileReaderError(t *testing.T) {
	fr := &mockCouplingFileReader{err: errors.New("collect failed")}
	uc := NewCouplingUseCase(&mockCouplingService{}, fr, &mockCouplingFormatter{}, nil)
	err := uc.Execute(context.Background(), domain.CouplingRequest{Paths: []string{"."}, OutputWriter: &bytes.Buffer{}, OutputFormat: domain.OutputFormatText})
	if err == nil {
		t.Fatalf("expected error from file reader")
	}
}

func TestCouplingUseCase_Execute_AnalysisError(t *testing.T) {
	svc := &mockCouplingService{err: errors.New("analyze failed")}
	fr := &mockCouplingFileReader{files: []string{"a.rs"}}
	uc := NewCouplingUseCase(svc, fr, &mockCouplingFormatter{}, nil)
	err := uc.Execute(context.Background(), domain.CouplingRequest{Paths: []string{"."}, OutputWriter: &bytes.Buffer{}, OutputFormat: domain.OutputFormatText})
	if err == nil {
		t.Fatalf("expected analysis error")
	}
}

func TestCouplingUseCase_Execute_ReportWriterError(t *testing.T) {
	svc := &mockCouplingService{resp: &domain.CouplingResponse{}}
	fr := &mockCouplingFileReader{files: []string{"a.rs"}}
	f := &mockCouplingFormatter{}
	out := &fakeReportWriter{err: errors.New("write failed")}
	uc, err := NewCouplingUseCaseBuilder().WithService(svc).WithFileReader(fr).WithFormatter(f).WithOutputWriter(out).Build()
	if err != nil {
		t.Fatalf("build usecase: %v", err)
	}
	if err := uc.Execute(context.Background(), domain.CouplingRequest{Paths: []string{"."}, OutputWriter: &bytes.Buffer{}, OutputFormat: domain.OutputFormatText}); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestCouplingUseCaseBuilder_MissingDeps(t *testing.T) {
	if _, err := NewCouplingUseCaseBuilder().Build(); err == nil {
		t.Fatalf("expected error for missing dependencies")
	}
}

type mockCouplingConfigLoader struct {
	loaded *domain.CouplingRequest
}

func (m *mockCouplingConfigLoader) LoadConfig(path string) (*domain.CouplingRequest, error) {
	return m.loaded, nil
}
func (m *mockCouplingConfigLoader) LoadDefaultConfig() *domain.CouplingRequest {
	return m.loaded
}
func (m *mockCouplingConfigLoader) MergeConfig(base *domain.CouplingRequest, override *domain.CouplingRequest) *domain.CouplingRequest {
	merged := *base
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	merged.OutputFormat = override.OutputFormat
	return &merged
}

func TestCouplingUseCase_Execute_UsesConfigLoader(t *testing.T) {
	svc := &mockCouplingService{resp: &domain.CouplingResponse{}}
	fr := &mockCouplingFileReader{files: []string{"a.rs"}}
	f := &mockCouplingFormatter{}
	out := &fakeReportWriter{}
	cl := &mockCouplingConfigLoader{loaded: &domain.CouplingRequest{Recursive: true, IncludePatterns: []string{"**/*.rs"}}}

	uc, err := NewCouplingUseCaseBuilder().
		WithService(svc).
		WithFileReader(fr).
		WithFormatter(f).
		WithConfigLoader(cl).
		WithOutputWriter(out).
		Build()
	if err != nil {
		t.Fatalf("build usecase: %v", err)
	}

	req := domain.CouplingRequest{Paths: []string{"."}, OutputWriter: &bytes.Buffer{}, OutputFormat: domain.OutputFormatText}
	if err := uc.Execute(context.Background(), req); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !out.called {
		t.Fatalf("expected report writer to be called")
	}
}
