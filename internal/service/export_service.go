package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/directory"
	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/pkg/export"
	"github.com/noah-isme/placement-portal-api/pkg/storage"
)

type shortlistSource interface {
	Query(ctx context.Context, criteria models.FilterCriteria) (directory.View, bool, error)
}

type fileStore interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Sweep(maxAge time.Duration) ([]string, error)
}

type tokenSigner interface {
	Sign(jobID, path string) (string, storage.Grant, error)
	Verify(token string) (storage.Grant, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	Rows         int
	ExpiresAt    time.Time
}

// ExportService renders filtered shortlists and persists the files.
type ExportService struct {
	source    shortlistSource
	files     fileStore
	signer    tokenSigner
	renderers map[models.ExportFormat]export.Renderer
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

var shortlistHeaders = []string{
	"Name", "Headline", "Institution", "Preferred Field", "Looking For",
	"Available From", "Available To", "Experience (months)", "Skills",
}

// NewExportService constructs an ExportService. A nil renderers map selects the CSV and
// PDF renderers.
func NewExportService(source shortlistSource, files fileStore, signer tokenSigner, cfg ExportConfig, logger *zap.Logger, renderers map[models.ExportFormat]export.Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if renderers == nil {
		renderers = map[models.ExportFormat]export.Renderer{
			models.ExportFormatCSV: export.NewCSVRenderer(),
			models.ExportFormatPDF: export.NewPDFRenderer(),
		}
	}
	return &ExportService{
		source:    source,
		files:     files,
		signer:    signer,
		renderers: renderers,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate filters the directory with the job criteria and stores the rendered shortlist.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	view, _, err := s.source.Query(ctx, job.Params.Criteria)
	if err != nil {
		return nil, err
	}
	renderer, ok := s.renderers[job.Params.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	dataset := shortlistDataset(view.Students)
	dataset.Title = fmt.Sprintf("Student Shortlist (%d of %d)", view.Matched, view.Total)

	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, err
	}

	relPath, err := s.files.Save(s.buildFilename(job, renderer.Extension()), payload)
	if err != nil {
		return nil, err
	}

	token, grant, err := s.signer.Sign(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Debug("shortlist rendered", zap.String("job_id", job.ID), zap.Int("rows", len(dataset.Rows)))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Params.Format,
		Rows:         len(dataset.Rows),
		ExpiresAt:    grant.ExpiresAt,
	}, nil
}

// VerifyToken checks a download token. Expired tokens return their grant with
// storage.ErrTokenExpired.
func (s *ExportService) VerifyToken(token string) (storage.Grant, error) {
	return s.signer.Verify(token)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.files.Open(relPath)
}

// Cleanup removes files older than ttl, or the configured ResultTTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.files.Sweep(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob, ext string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("shortlist_%s_%s.%s", sanitizeFilename(job.ID), timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func shortlistDataset(students []models.StudentProfile) export.Dataset {
	rows := make([][]string, 0, len(students))
	for _, p := range students {
		var lookingFor, from, to string
		if lf := p.LookingFor; lf != nil {
			lookingFor, from, to = string(lf.Type), formatDay(lf.FromDate), formatDay(lf.ToDate)
		}
		rows = append(rows, []string{
			p.Owner.FullName(),
			p.Headline,
			p.Owner.University,
			p.Field(),
			lookingFor,
			from,
			to,
			strconv.Itoa(p.TotalExperienceMonths),
			strings.Join(p.Skills.Labels(), ", "),
		})
	}
	return export.Dataset{Headers: shortlistHeaders, Rows: rows}
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(directory.DateLayout)
}
