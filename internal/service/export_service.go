package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ttc-bicumbi/portal/internal/dto"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
	"github.com/ttc-bicumbi/portal/pkg/export"
)

const exportKindGrades = "grades"

type gradeSheetProvider interface {
	GradeSheet(ctx context.Context, id int64) (*dto.GradeSheet, error)
}

type exportSigner interface {
	Generate(kind, ref string) (string, time.Time, error)
	Parse(token string) (kind, ref string, expiresAt time.Time, err error)
}

// ExportService produces signed grade sheet download links and renders the
// downloads they point to.
type ExportService struct {
	sheets  gradeSheetProvider
	signer  exportSigner
	baseURL string
	logger  *zap.Logger
}

// NewExportService constructs an ExportService. baseURL is the path prefix
// under which the download endpoint is mounted.
func NewExportService(sheets gradeSheetProvider, signer exportSigner, baseURL string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{sheets: sheets, signer: signer, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// GradeExportLink returns a signed link to download an assessment's grade sheet.
func (s *ExportService) GradeExportLink(ctx context.Context, assessmentID int64, rawFormat string) (*dto.ExportLink, error) {
	format, err := export.ParseFormat(strings.ToLower(strings.TrimSpace(rawFormat)))
	if err != nil {
		return nil, appErrors.WithDetails(appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format"), "field", "format")
	}
	if _, err := s.sheets.GradeSheet(ctx, assessmentID); err != nil {
		return nil, err
	}

	ref := fmt.Sprintf("%d:%s", assessmentID, format)
	token, expiresAt, err := s.signer.Generate(exportKindGrades, ref)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}
	return &dto.ExportLink{
		URL:       s.baseURL + "/exports/grades?token=" + url.QueryEscape(token),
		Format:    string(format),
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveGradeExport validates a signed token and renders the grade sheet.
func (s *ExportService) ResolveGradeExport(ctx context.Context, token string) (*dto.ExportFile, error) {
	kind, ref, _, err := s.signer.Parse(token)
	if err != nil || kind != exportKindGrades {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}
	idPart, formatPart, found := strings.Cut(ref, ":")
	id, convErr := strconv.ParseInt(idPart, 10, 64)
	format, fmtErr := export.ParseFormat(formatPart)
	if !found || convErr != nil || fmtErr != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download link")
	}

	sheet, err := s.sheets.GradeSheet(ctx, id)
	if err != nil {
		return nil, err
	}

	exporter := export.ForFormat(format)
	body, err := exporter.Render(gradeDataset(sheet))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("grade sheet exported", zap.Int64("assessment_id", id), zap.String("format", string(format)), zap.Int("rows", len(sheet.Grades)))
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("grades-%d.%s", id, exporter.Extension()),
		ContentType: exporter.ContentType(),
		Body:        body,
	}, nil
}

func gradeDataset(sheet *dto.GradeSheet) export.Dataset {
	rows := make([]map[string]string, 0, len(sheet.Grades))
	for _, g := range sheet.Grades {
		rows = append(rows, map[string]string{
			"Student": g.StudentID,
			"Score":   strconv.Itoa(g.Score),
		})
	}
	subtitle := fmt.Sprintf("%s | %s | due %s", sheet.Assessment.ClassName, sheet.Assessment.Kind, sheet.Assessment.DueDate)
	if sheet.Average != nil {
		subtitle += fmt.Sprintf(" | average %.1f", *sheet.Average)
	}
	return export.Dataset{
		Title:    sheet.Assessment.Name,
		Subtitle: subtitle,
		Headers:  []string{"Student", "Score"},
		Rows:     rows,
	}
}
