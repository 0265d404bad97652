package services

import (
	"context"
	"errors"
	"testing"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/validator"
)

func listFiltersWithArchived(include bool) repositories.QuestionFilters {
	return repositories.QuestionFilters{IncludeArchived: include, Limit: 20}
}

func seedUsers(repo *mockRepository) {
	repo.addUser(&models.User{ID: "student-1", Email: "s1@campus.edu", Role: models.RoleStudent, IsActive: true})
	repo.addUser(&models.User{ID: "student-2", Email: "s2@campus.edu", Role: models.RoleStudent, IsActive: true})
	repo.addUser(&models.User{ID: "teacher-1", Email: "t1@campus.edu", Role: models.RoleTeacher, IsActive: true})
	repo.addUser(&models.User{ID: "admin-1", Email: "a1@campus.edu", Role: models.RoleAdmin, IsActive: true})
}

func TestQuestionService_Create(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedUsers(repo)
	svc := NewQuestionService(repo, nil, testLogger(), validator.New())

	t.Run("defaults priority to medium", func(t *testing.T) {
		resp, err := svc.Create(ctx, &CreateQuestionRequest{
			Title:    "How do I register for exams?",
			Content:  "I cannot find the exam registration page anywhere.",
			Category: models.CategoryAdministrative,
		}, "student-1")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if resp.Priority != models.PriorityMedium {
			t.Errorf("Expected default priority medium, got %s", resp.Priority)
		}
		if !resp.CanEdit || !resp.CanDelete {
			t.Error("Author should be able to edit and delete their question")
		}
	})

	t.Run("rejects invalid category", func(t *testing.T) {
		_, err := svc.Create(ctx, &CreateQuestionRequest{
			Title:    "A perfectly fine title",
			Content:  "Content that is long enough to pass validation.",
			Category: "Nonsense",
		}, "student-1")
		if err == nil {
			t.Fatal("Expected validation error for bad category")
		}
	})
}

func TestQuestionService_Like(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedUsers(repo)
	svc := NewQuestionService(repo, nil, testLogger(), validator.New())

	repo.addQuestion(&models.Question{
		Title:    "Likeable question",
		Content:  "Content for the likeable question.",
		Category: models.CategoryGeneral,
		AuthorID: "student-1",
	})

	added, err := svc.Like(ctx, 1, "student-2")
	if err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if !added {
		t.Error("First like should be recorded")
	}

	added, err = svc.Like(ctx, 1, "student-2")
	if err != nil {
		t.Fatalf("Repeated like failed: %v", err)
	}
	if added {
		t.Error("Second like by the same user must be a no-op")
	}

	if _, err := svc.Like(ctx, 999, "student-2"); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("Expected ErrQuestionNotFound for missing question, got %v", err)
	}
}

func TestQuestionService_Delete_Permissions(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		userID  string
		allowed bool
	}{
		{"author can delete", "student-1", true},
		{"other student cannot delete", "student-2", false},
		{"teacher cannot delete", "teacher-1", false},
		{"admin can delete", "admin-1", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockRepository()
			seedUsers(repo)
			svc := NewQuestionService(repo, nil, testLogger(), validator.New())
			repo.addQuestion(&models.Question{
				Title:    "Question to delete",
				Content:  "Content for deletion testing.",
				Category: models.CategoryGeneral,
				AuthorID: "student-1",
			})

			err := svc.Delete(ctx, 1, tc.userID)
			if tc.allowed && err != nil {
				t.Fatalf("Expected delete to succeed, got %v", err)
			}
			if !tc.allowed {
				if !IsPermissionError(err) {
					t.Fatalf("Expected permission error, got %v", err)
				}
				if _, stillThere := repo.questions[1]; !stillThere {
					t.Error("Question must survive a denied delete")
				}
			}
		})
	}
}

func TestQuestionService_Update_Permissions(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedUsers(repo)
	svc := NewQuestionService(repo, nil, testLogger(), validator.New())
	repo.addQuestion(&models.Question{
		Title:    "Original question title",
		Content:  "Original question content body.",
		Category: models.CategoryGeneral,
		AuthorID: "student-1",
	})

	newTitle := "Edited question title"

	// Teachers moderate content, so they may edit.
	if _, err := svc.Update(ctx, 1, &UpdateQuestionRequest{Title: &newTitle}, "teacher-1"); err != nil {
		t.Fatalf("Teacher edit failed: %v", err)
	}

	// An unrelated student may not.
	_, err := svc.Update(ctx, 1, &UpdateQuestionRequest{Title: &newTitle}, "student-2")
	if !IsPermissionError(err) {
		t.Errorf("Expected permission error for unrelated student, got %v", err)
	}
}

func TestQuestionService_ArchivedVisibility(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedUsers(repo)
	svc := NewQuestionService(repo, nil, testLogger(), validator.New())
	repo.addQuestion(&models.Question{
		Title:      "Archived question",
		Content:    "This question has been archived.",
		Category:   models.CategoryGeneral,
		AuthorID:   "student-1",
		IsArchived: true,
	})

	// Hidden from unrelated users.
	if _, err := svc.GetByID(ctx, 1, "student-2"); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("Expected archived question hidden from others, got %v", err)
	}

	// Still visible to the author and moderators.
	if _, err := svc.GetByID(ctx, 1, "student-1"); err != nil {
		t.Errorf("Author should see their archived question: %v", err)
	}
	if _, err := svc.GetByID(ctx, 1, "admin-1"); err != nil {
		t.Errorf("Admin should see archived questions: %v", err)
	}

	// Default listings exclude archived content for everyone.
	list, err := svc.List(ctx, listFiltersWithArchived(true), "student-2")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list.Questions) != 0 {
		t.Errorf("Non-moderator must not list archived questions, got %d", len(list.Questions))
	}

	list, err = svc.List(ctx, listFiltersWithArchived(true), "admin-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list.Questions) != 1 {
		t.Errorf("Admin should list archived questions, got %d", len(list.Questions))
	}
}

func TestQuestionService_GetByAuthorVisibility(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedUsers(repo)
	svc := NewQuestionService(repo, nil, testLogger(), validator.New())
	repo.addQuestion(&models.Question{
		Title:    "Public question",
		Content:  "Visible to everyone on the author page.",
		Category: models.CategoryGeneral,
		AuthorID: "student-1",
	})
	repo.addQuestion(&models.Question{
		Title:      "Archived question",
		Content:    "Only the author and moderators see this one.",
		Category:   models.CategoryGeneral,
		AuthorID:   "student-1",
		IsArchived: true,
	})

	// Strangers get the public view, with no owner capabilities.
	list, err := svc.GetByAuthor(ctx, "student-1", repositories.QuestionFilters{}, "student-2")
	if err != nil {
		t.Fatalf("GetByAuthor failed: %v", err)
	}
	if len(list.Questions) != 1 {
		t.Fatalf("Stranger should see 1 question, got %d", len(list.Questions))
	}
	if list.Questions[0].CanEdit || list.Questions[0].CanDelete {
		t.Errorf("Stranger must not get edit/delete capabilities, got can_edit=%v can_delete=%v",
			list.Questions[0].CanEdit, list.Questions[0].CanDelete)
	}

	// The author sees their archived questions too.
	list, err = svc.GetByAuthor(ctx, "student-1", repositories.QuestionFilters{}, "student-1")
	if err != nil {
		t.Fatalf("GetByAuthor failed: %v", err)
	}
	if len(list.Questions) != 2 {
		t.Errorf("Author should see 2 questions, got %d", len(list.Questions))
	}

	// So do moderators.
	list, err = svc.GetByAuthor(ctx, "student-1", repositories.QuestionFilters{}, "teacher-1")
	if err != nil {
		t.Fatalf("GetByAuthor failed: %v", err)
	}
	if len(list.Questions) != 2 {
		t.Errorf("Moderator should see 2 questions, got %d", len(list.Questions))
	}
}

func TestQuestionService_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedUsers(repo)
	svc := NewQuestionService(repo, nil, testLogger(), validator.New())
	repo.addQuestion(&models.Question{
		Title:    "Question to resolve",
		Content:  "Content for resolution testing.",
		Category: models.CategoryTechnical,
		AuthorID: "student-1",
	})

	if err := svc.Resolve(ctx, 1, true, "student-2"); !IsPermissionError(err) {
		t.Errorf("Expected permission error for non-owner, got %v", err)
	}

	if err := svc.Resolve(ctx, 1, true, "student-1"); err != nil {
		t.Fatalf("Owner resolve failed: %v", err)
	}
	if !repo.questions[1].IsResolved {
		t.Error("Question should be marked resolved")
	}
}
