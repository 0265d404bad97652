package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportPlatformReport builds the admin xlsx download: one sheet with the
// user directory, one with question activity, one with overview counts.
func (s *exportService) ExportPlatformReport(ctx context.Context) (*excelize.File, error) {
	s.logger.Info("Building platform export")

	f := excelize.NewFile()

	if err := s.writeUsersSheet(ctx, f); err != nil {
		return nil, err
	}
	if err := s.writeQuestionsSheet(ctx, f); err != nil {
		return nil, err
	}
	if err := s.writeOverviewSheet(ctx, f); err != nil {
		return nil, err
	}

	// Drop the default sheet created by NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Warn("Failed to remove default sheet", "error", err)
	}

	return f, nil
}

func (s *exportService) writeUsersSheet(ctx context.Context, f *excelize.File) error {
	const sheet = "Users"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create users sheet: %w", err)
	}

	headers := []string{"ID", "Full Name", "Email", "Role", "Department", "Active", "Last Login"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	users, _, err := s.repo.User().List(ctx, repositories.UserFilters{Limit: 100})
	if err != nil {
		return fmt.Errorf("failed to list users for export: %w", err)
	}

	for row, user := range users {
		values := []interface{}{
			user.ID,
			user.FullName,
			user.Email,
			string(user.Role),
			derefOrEmpty(user.Department),
			user.IsActive,
			formatNullableTime(user.LastLoginAt),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write user row: %w", err)
			}
		}
	}

	return nil
}

func (s *exportService) writeQuestionsSheet(ctx context.Context, f *excelize.File) error {
	const sheet = "Questions"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create questions sheet: %w", err)
	}

	headers := []string{"ID", "Title", "Category", "Priority", "Author", "Views", "Resolved", "Archived", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	questions, _, err := s.repo.Question().List(ctx, nil, repositories.QuestionFilters{
		IncludeArchived: true,
		Limit:           100,
		SortBy:          "newest",
	})
	if err != nil {
		return fmt.Errorf("failed to list questions for export: %w", err)
	}

	for row, q := range questions {
		values := []interface{}{
			q.ID,
			q.Title,
			string(q.Category),
			string(q.Priority),
			q.AuthorID,
			q.Views,
			q.IsResolved,
			q.IsArchived,
			q.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write question row: %w", err)
			}
		}
	}

	return nil
}

func (s *exportService) writeOverviewSheet(ctx context.Context, f *excelize.File) error {
	const sheet = "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create overview sheet: %w", err)
	}

	stats, err := s.repo.Stats().GetPlatformStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats for export: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total users", stats.TotalUsers},
		{"Active users", stats.ActiveUsers},
		{"Students", stats.UsersByRole[string(models.RoleStudent)]},
		{"Teachers", stats.UsersByRole[string(models.RoleTeacher)]},
		{"Admins", stats.UsersByRole[string(models.RoleAdmin)]},
		{"Total questions", stats.TotalQuestions},
		{"Resolved questions", stats.ResolvedQuestions},
		{"Archived questions", stats.ArchivedQuestions},
		{"Total answers", stats.TotalAnswers},
		{"Verified answers", stats.VerifiedAnswers},
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write overview row: %w", err)
			}
		}
	}

	return nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatNullableTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
