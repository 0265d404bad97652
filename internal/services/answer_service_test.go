package services

import (
	"context"
	"errors"
	"testing"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/validator"
)

func TestAnswerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies the question author", func(t *testing.T) {
		repo := newMockRepository()
		seedUsers(repo)
		svc := NewAnswerService(repo, nil, testLogger(), validator.New())
		repo.addQuestion(&models.Question{
			Title:    "Question awaiting answers",
			Content:  "Content for the question.",
			Category: models.CategoryTechnical,
			AuthorID: "student-1",
		})

		resp, err := svc.Create(ctx, &CreateAnswerRequest{
			QuestionID: 1,
			Content:    "Here is a detailed answer.",
		}, "teacher-1")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if resp.AuthorID != "teacher-1" {
			t.Errorf("Expected author teacher-1, got %s", resp.AuthorID)
		}

		if len(repo.notificationsFor("student-1")) != 1 {
			t.Errorf("Expected one notification for the question author, got %d", len(repo.notificationsFor("student-1")))
		}
	})

	t.Run("self-answer does not notify", func(t *testing.T) {
		repo := newMockRepository()
		seedUsers(repo)
		svc := NewAnswerService(repo, nil, testLogger(), validator.New())
		repo.addQuestion(&models.Question{
			Title:    "Self answered question",
			Content:  "Content for the question.",
			Category: models.CategoryGeneral,
			AuthorID: "student-1",
		})

		if _, err := svc.Create(ctx, &CreateAnswerRequest{QuestionID: 1, Content: "Answering myself here."}, "student-1"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if len(repo.notificationsFor("student-1")) != 0 {
			t.Error("Self-answer must not generate a notification")
		}
	})

	t.Run("archived question rejects answers", func(t *testing.T) {
		repo := newMockRepository()
		seedUsers(repo)
		svc := NewAnswerService(repo, nil, testLogger(), validator.New())
		repo.addQuestion(&models.Question{
			Title:      "Archived question",
			Content:    "Content for the question.",
			Category:   models.CategoryGeneral,
			AuthorID:   "student-1",
			IsArchived: true,
		})

		_, err := svc.Create(ctx, &CreateAnswerRequest{QuestionID: 1, Content: "Too late to answer this."}, "student-2")
		if !IsPermissionError(err) {
			t.Errorf("Expected permission error for archived question, got %v", err)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		repo := newMockRepository()
		seedUsers(repo)
		svc := NewAnswerService(repo, nil, testLogger(), validator.New())

		_, err := svc.Create(ctx, &CreateAnswerRequest{QuestionID: 9, Content: "Answer to nothing at all."}, "student-2")
		if !errors.Is(err, ErrQuestionNotFound) {
			t.Errorf("Expected ErrQuestionNotFound, got %v", err)
		}
	})
}

func TestAnswerService_Accept(t *testing.T) {
	ctx := context.Background()

	setup := func() (*mockRepository, AnswerService) {
		repo := newMockRepository()
		seedUsers(repo)
		svc := NewAnswerService(repo, nil, testLogger(), validator.New())
		repo.addQuestion(&models.Question{
			Title:    "Question with answers",
			Content:  "Content for the question.",
			Category: models.CategoryAcademic,
			AuthorID: "student-1",
		})
		repo.addAnswer(&models.Answer{QuestionID: 1, AuthorID: "teacher-1", Content: "The answer."})
		return repo, svc
	}

	t.Run("question author accepts", func(t *testing.T) {
		repo, svc := setup()
		if err := svc.Accept(ctx, 1, "student-1"); err != nil {
			t.Fatalf("Accept failed: %v", err)
		}
		if !repo.answers[1].IsAccepted {
			t.Error("Answer should be accepted")
		}
		if !repo.questions[1].IsResolved {
			t.Error("Accepting an answer should resolve the question")
		}
		if len(repo.notificationsFor("teacher-1")) != 1 {
			t.Error("Answer author should be notified of acceptance")
		}
	})

	t.Run("stranger cannot accept", func(t *testing.T) {
		_, svc := setup()
		if err := svc.Accept(ctx, 1, "student-2"); !IsPermissionError(err) {
			t.Errorf("Expected permission error, got %v", err)
		}
	})

	t.Run("moderator can accept", func(t *testing.T) {
		repo, svc := setup()
		if err := svc.Accept(ctx, 1, "admin-1"); err != nil {
			t.Fatalf("Admin accept failed: %v", err)
		}
		if !repo.answers[1].IsAccepted {
			t.Error("Answer should be accepted")
		}
	})
}

func TestAnswerService_Verify(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedUsers(repo)
	svc := NewAnswerService(repo, nil, testLogger(), validator.New())
	repo.addQuestion(&models.Question{
		Title:    "Question needing verification",
		Content:  "Content for the question.",
		Category: models.CategoryTechnical,
		AuthorID: "student-1",
	})
	repo.addAnswer(&models.Answer{QuestionID: 1, AuthorID: "student-2", Content: "A student answer."})

	if err := svc.Verify(ctx, 1, true, "student-2"); !IsPermissionError(err) {
		t.Errorf("Expected permission error for student, got %v", err)
	}

	if err := svc.Verify(ctx, 1, true, "teacher-1"); err != nil {
		t.Fatalf("Teacher verify failed: %v", err)
	}
	if !repo.answers[1].IsVerified {
		t.Error("Answer should be verified")
	}

	if err := svc.Verify(ctx, 1, false, "teacher-1"); err != nil {
		t.Fatalf("Unverify failed: %v", err)
	}
	if repo.answers[1].IsVerified {
		t.Error("Answer should be unverified")
	}
}

func TestAnswerService_Comments(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedUsers(repo)
	svc := NewAnswerService(repo, nil, testLogger(), validator.New())
	repo.addQuestion(&models.Question{
		Title:    "Question with discussion",
		Content:  "Content for the question.",
		Category: models.CategoryGeneral,
		AuthorID: "student-1",
	})
	repo.addAnswer(&models.Answer{QuestionID: 1, AuthorID: "teacher-1", Content: "The answer."})

	comment, err := svc.AddComment(ctx, 1, &CreateCommentRequest{Content: "Thanks, that helps!"}, "student-1")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if len(repo.notificationsFor("teacher-1")) != 1 {
		t.Error("Answer author should be notified of the comment")
	}

	// Comment likes are idempotent like every other like set.
	added, err := svc.LikeComment(ctx, comment.ID, "student-2")
	if err != nil || !added {
		t.Fatalf("First comment like failed: added=%v err=%v", added, err)
	}
	added, err = svc.LikeComment(ctx, comment.ID, "student-2")
	if err != nil {
		t.Fatalf("Repeated comment like failed: %v", err)
	}
	if added {
		t.Error("Repeated comment like must be a no-op")
	}

	// Only the comment author or a moderator may delete.
	if err := svc.DeleteComment(ctx, comment.ID, "student-2"); !IsPermissionError(err) {
		t.Errorf("Expected permission error, got %v", err)
	}
	if err := svc.DeleteComment(ctx, comment.ID, "student-1"); err != nil {
		t.Fatalf("Author delete failed: %v", err)
	}
	if err := svc.DeleteComment(ctx, comment.ID, "student-1"); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("Expected ErrCommentNotFound after delete, got %v", err)
	}
}
