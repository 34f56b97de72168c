package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/grav-clothing/grav-cms-api/models"
)

// PipelineState is the observable state of a tender's label pipeline.
type PipelineState string

const (
	PipelineEmpty     PipelineState = "empty"
	PipelineGenerated PipelineState = "generated"
	PipelineExported  PipelineState = "exported"
)

// ExportService tracks the label pipeline per tender: Empty until the first
// expansion, Generated while labels exist, Exported once an artifact has
// been produced from the current run. Regenerating fully replaces the label
// list and its token, invalidating anything built from an older run; asking
// for an artifact while Empty generates first, synchronously, then exports.
type ExportService struct {
	mu        sync.Mutex
	pipelines map[uint]*tenderPipeline
}

type tenderPipeline struct {
	state     PipelineState
	expansion models.Expansion
}

var exportServiceInstance *ExportService

// InitExportService initializes the export service
func InitExportService() *ExportService {
	exportServiceInstance = &ExportService{
		pipelines: make(map[uint]*tenderPipeline),
	}
	return exportServiceInstance
}

// GetExportService returns the initialized export service instance
func GetExportService() *ExportService {
	return exportServiceInstance
}

// Generate runs a fresh expansion for the tender, discarding any previous
// label list, and moves the pipeline to Generated.
func (s *ExportService) Generate(t *models.Tender) models.Expansion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateLocked(t)
}

func (s *ExportService) generateLocked(t *models.Tender) models.Expansion {
	exp := ExpandLabels(t)
	s.pipelines[t.ID] = &tenderPipeline{
		state:     PipelineGenerated,
		expansion: exp,
	}
	return exp
}

// Current returns the tender's latest expansion and pipeline state.
func (s *ExportService) Current(tenderID uint) (models.Expansion, PipelineState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pipelines[tenderID]
	if !ok {
		return models.Expansion{}, PipelineEmpty
	}
	return p.expansion, p.state
}

// Invalidate drops the tender's pipeline back to Empty. Called when the
// order model changes or the tender is deleted, since the previous labels
// no longer derive from the current tree.
func (s *ExportService) Invalidate(tenderID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pipelines, tenderID)
}

// ExportPDF produces the downloadable label document for the tender,
// generating labels first when none exist. Returns the PDF bytes, the
// download filename, and the expansion the document was built from.
func (s *ExportService) ExportPDF(t *models.Tender) ([]byte, string, models.Expansion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.ensureGeneratedLocked(t)
	data, filename, err := BuildLabelDocument(t, p.expansion)
	if err != nil {
		return nil, "", models.Expansion{}, err
	}
	p.state = PipelineExported
	return data, filename, p.expansion, nil
}

// PrintView produces the print HTML for the tender, generating labels first
// when none exist.
func (s *ExportService) PrintView(t *models.Tender) (string, models.Expansion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.ensureGeneratedLocked(t)
	html, err := BuildPrintView(t, p.expansion)
	if err != nil {
		return "", models.Expansion{}, err
	}
	p.state = PipelineExported
	return html, p.expansion, nil
}

// Archive exports the label document and stores it in S3, returning the
// object key and a presigned URL.
func (s *ExportService) Archive(t *models.Tender) (string, string, error) {
	data, filename, _, err := s.ExportPDF(t)
	if err != nil {
		return "", "", err
	}

	s3Service := GetS3Service()
	if s3Service == nil {
		return "", "", fmt.Errorf("S3 service is not initialized")
	}

	key := fmt.Sprintf("exports/%d_%s", time.Now().Unix(), filename)
	if err := s3Service.UploadDocument(key, data, "application/pdf"); err != nil {
		return "", "", fmt.Errorf("failed to archive label document: %w", err)
	}

	url, err := s3Service.GetPresignedURL(key)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate archive URL: %w", err)
	}
	return key, url, nil
}

func (s *ExportService) ensureGeneratedLocked(t *models.Tender) *tenderPipeline {
	p, ok := s.pipelines[t.ID]
	if !ok {
		s.generateLocked(t)
		p = s.pipelines[t.ID]
	}
	return p
}
