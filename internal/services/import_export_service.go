package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
)

const (
	summarySheet   = "Summary"
	gradebookSheet = "Gradebook"
)

var (
	summaryHeaders   = []interface{}{"Username", "Hacker Name", "Email", "Completed", "In Progress", "Total Started", "Earned Points"}
	gradebookHeaders = []interface{}{"Username", "Hacker Name", "Email", "Tree", "Level", "Node", "Max Points", "Status", "Link", "File", "Submitted At", "Reviewed At", "Review Notes"}
)

type importExportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewImportExportService(repo repositories.Repository, logger utils.Logger) ImportExportService {
	return &importExportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportGradebook writes the per-student summary and the full gradebook to
// one workbook
func (s *importExportService) ExportGradebook(ctx context.Context, w io.Writer) error {
	summary, err := s.repo.Dashboard().GetAllStudentStats(ctx, nil)
	if err != nil {
		return err
	}
	rows, err := s.repo.Dashboard().GetGradebook(ctx, nil)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(gradebookSheet); err != nil {
		return fmt.Errorf("failed to create gradebook sheet: %w", err)
	}

	if err := writeRow(f, summarySheet, 1, summaryHeaders); err != nil {
		return err
	}
	for i, st := range summary {
		if err := writeRow(f, summarySheet, i+2, []interface{}{
			st.Username, deref(st.HackerName), st.Email,
			st.CompletedNodes, st.InProgressNodes, st.TotalStarted, st.EarnedPoints,
		}); err != nil {
			return err
		}
	}

	if err := writeRow(f, gradebookSheet, 1, gradebookHeaders); err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		bundle := models.ParseSubmission(row.Submission)
		if err := writeRow(f, gradebookSheet, i+2, []interface{}{
			row.Username, deref(row.HackerName), row.Email,
			row.TreeName, row.NodeLevel, row.NodeTitle, row.MaxPoints, row.StatusLabel(),
			bundle.Link, bundle.FileName, formatTime(row.SubmittedAt), formatTime(row.ReviewedAt), deref(row.ReviewNotes),
		}); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Gradebook exported", "students", len(summary), "rows", len(rows))
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
