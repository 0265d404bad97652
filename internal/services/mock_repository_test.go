package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests.
type mockRepository struct {
	mu sync.Mutex

	users         map[string]*models.User
	questions     map[uint]*models.Question
	questionLikes map[string]bool
	answers       map[uint]*models.Answer
	answerLikes   map[string]bool
	comments      map[uint]*models.Comment
	commentLikes  map[string]bool
	notifications []*models.Notification
	auditEntries  []*models.AuditLog

	nextQuestionID     uint
	nextAnswerID       uint
	nextCommentID      uint
	nextNotificationID uint
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:              make(map[string]*models.User),
		questions:          make(map[uint]*models.Question),
		questionLikes:      make(map[string]bool),
		answers:            make(map[uint]*models.Answer),
		answerLikes:        make(map[string]bool),
		comments:           make(map[uint]*models.Comment),
		commentLikes:       make(map[string]bool),
		nextQuestionID:     1,
		nextAnswerID:       1,
		nextCommentID:      1,
		nextNotificationID: 1,
	}
}

func (m *mockRepository) User() repositories.UserRepository                 { return &mockUserRepo{m} }
func (m *mockRepository) Question() repositories.QuestionRepository         { return &mockQuestionRepo{m} }
func (m *mockRepository) Answer() repositories.AnswerRepository             { return &mockAnswerRepo{m} }
func (m *mockRepository) Notification() repositories.NotificationRepository { return &mockNotificationRepo{m} }
func (m *mockRepository) AuditLog() repositories.AuditLogRepository         { return &mockAuditLogRepo{m} }
func (m *mockRepository) Stats() repositories.StatsRepository               { return &mockStatsRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

func (m *mockRepository) addUser(user *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return &copied
}

func (m *mockRepository) addQuestion(q *models.Question) *models.Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == 0 {
		q.ID = m.nextQuestionID
		m.nextQuestionID++
	}
	q.CreatedAt = time.Now()
	m.questions[q.ID] = q
	return q
}

func (m *mockRepository) addAnswer(a *models.Answer) *models.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = m.nextAnswerID
		m.nextAnswerID++
	}
	m.answers[a.ID] = a
	return a
}

func (m *mockRepository) notificationsFor(userID string) []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// ===== USER =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) FindOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == user.Email {
			return existing, false, nil
		}
	}
	copied := *user
	r.m.users[user.ID] = &copied
	return &copied, true, nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, repositories.NewNotFoundError("user", id)
	}
	return user, nil
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.NewNotFoundError("user", email)
}

func (r *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return repositories.NewNotFoundError("user", user.ID)
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return repositories.NewNotFoundError("user", id)
	}
	user.Role = role
	return nil
}

func (r *mockUserRepo) ToggleActive(ctx context.Context, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return false, repositories.NewNotFoundError("user", id)
	}
	user.IsActive = !user.IsActive
	return user.IsActive, nil
}

func (r *mockUserRepo) TouchLastLogin(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return repositories.NewNotFoundError("user", id)
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (r *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.User
	for _, u := range r.m.users {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		if filters.Active != nil && u.IsActive != *filters.Active {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ===== QUESTION =====

type mockQuestionRepo struct{ m *mockRepository }

func (r *mockQuestionRepo) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	r.m.addQuestion(question)
	return nil
}

func (r *mockQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	q, ok := r.m.questions[id]
	if !ok {
		return nil, repositories.NewNotFoundError("question", fmt.Sprint(id))
	}
	return q, nil
}

func (r *mockQuestionRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *mockQuestionRepo) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.questions[question.ID]; !ok {
		return repositories.NewNotFoundError("question", fmt.Sprint(question.ID))
	}
	r.m.questions[question.ID] = question
	return nil
}

func (r *mockQuestionRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.questions[id]; !ok {
		return repositories.NewNotFoundError("question", fmt.Sprint(id))
	}
	delete(r.m.questions, id)
	for aid, a := range r.m.answers {
		if a.QuestionID == id {
			delete(r.m.answers, aid)
		}
	}
	return nil
}

func (r *mockQuestionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Question
	for _, q := range r.m.questions {
		if q.IsArchived && !filters.IncludeArchived {
			continue
		}
		if filters.AuthorID != nil && q.AuthorID != *filters.AuthorID {
			continue
		}
		if filters.Category != nil && q.Category != *filters.Category {
			continue
		}
		out = append(out, q)
	}
	return out, int64(len(out)), nil
}

func (r *mockQuestionRepo) GetByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	filters.AuthorID = &authorID
	return r.List(ctx, tx, filters)
}

func (r *mockQuestionRepo) IncrementViews(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	q, ok := r.m.questions[id]
	if !ok {
		return repositories.NewNotFoundError("question", fmt.Sprint(id))
	}
	q.Views++
	return nil
}

func (r *mockQuestionRepo) AddLike(ctx context.Context, tx *gorm.DB, questionID uint, userID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.questions[questionID]; !ok {
		return false, repositories.NewNotFoundError("question", fmt.Sprint(questionID))
	}
	key := fmt.Sprintf("%d:%s", questionID, userID)
	if r.m.questionLikes[key] {
		return false, nil
	}
	r.m.questionLikes[key] = true
	return true, nil
}

func (r *mockQuestionRepo) SetResolved(ctx context.Context, tx *gorm.DB, id uint, resolved bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	q, ok := r.m.questions[id]
	if !ok {
		return repositories.NewNotFoundError("question", fmt.Sprint(id))
	}
	q.IsResolved = resolved
	return nil
}

func (r *mockQuestionRepo) SetArchived(ctx context.Context, tx *gorm.DB, id uint, archived bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	q, ok := r.m.questions[id]
	if !ok {
		return repositories.NewNotFoundError("question", fmt.Sprint(id))
	}
	q.IsArchived = archived
	return nil
}

// ===== ANSWER =====

type mockAnswerRepo struct{ m *mockRepository }

func (r *mockAnswerRepo) Create(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	r.m.addAnswer(answer)
	return nil
}

func (r *mockAnswerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Answer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.answers[id]
	if !ok {
		return nil, repositories.NewNotFoundError("answer", fmt.Sprint(id))
	}
	return a, nil
}

func (r *mockAnswerRepo) GetByQuestion(ctx context.Context, tx *gorm.DB, questionID uint) ([]*models.Answer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Answer
	for _, a := range r.m.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockAnswerRepo) Update(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.answers[answer.ID]; !ok {
		return repositories.NewNotFoundError("answer", fmt.Sprint(answer.ID))
	}
	r.m.answers[answer.ID] = answer
	return nil
}

func (r *mockAnswerRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.answers[id]; !ok {
		return repositories.NewNotFoundError("answer", fmt.Sprint(id))
	}
	delete(r.m.answers, id)
	return nil
}

func (r *mockAnswerRepo) DeleteByQuestion(ctx context.Context, tx *gorm.DB, questionID uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, a := range r.m.answers {
		if a.QuestionID == questionID {
			delete(r.m.answers, id)
		}
	}
	return nil
}

func (r *mockAnswerRepo) AddLike(ctx context.Context, tx *gorm.DB, answerID uint, userID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.answers[answerID]; !ok {
		return false, repositories.NewNotFoundError("answer", fmt.Sprint(answerID))
	}
	key := fmt.Sprintf("%d:%s", answerID, userID)
	if r.m.answerLikes[key] {
		return false, nil
	}
	r.m.answerLikes[key] = true
	return true, nil
}

func (r *mockAnswerRepo) SetAccepted(ctx context.Context, tx *gorm.DB, id uint, accepted bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.answers[id]
	if !ok {
		return repositories.NewNotFoundError("answer", fmt.Sprint(id))
	}
	a.IsAccepted = accepted
	return nil
}

func (r *mockAnswerRepo) SetVerified(ctx context.Context, tx *gorm.DB, id uint, verified bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.answers[id]
	if !ok {
		return repositories.NewNotFoundError("answer", fmt.Sprint(id))
	}
	a.IsVerified = verified
	return nil
}

func (r *mockAnswerRepo) AddComment(ctx context.Context, tx *gorm.DB, comment *models.Comment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if comment.ID == 0 {
		comment.ID = r.m.nextCommentID
		r.m.nextCommentID++
	}
	r.m.comments[comment.ID] = comment
	return nil
}

func (r *mockAnswerRepo) GetComment(ctx context.Context, tx *gorm.DB, id uint) (*models.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.comments[id]
	if !ok {
		return nil, repositories.NewNotFoundError("comment", fmt.Sprint(id))
	}
	return c, nil
}

func (r *mockAnswerRepo) DeleteComment(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.comments[id]; !ok {
		return repositories.NewNotFoundError("comment", fmt.Sprint(id))
	}
	delete(r.m.comments, id)
	return nil
}

func (r *mockAnswerRepo) AddCommentLike(ctx context.Context, tx *gorm.DB, commentID uint, userID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.comments[commentID]; !ok {
		return false, repositories.NewNotFoundError("comment", fmt.Sprint(commentID))
	}
	key := fmt.Sprintf("%d:%s", commentID, userID)
	if r.m.commentLikes[key] {
		return false, nil
	}
	r.m.commentLikes[key] = true
	return true, nil
}

// ===== NOTIFICATION =====

type mockNotificationRepo struct{ m *mockRepository }

func (r *mockNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	notification.ID = r.m.nextNotificationID
	r.m.nextNotificationID++
	notification.CreatedAt = time.Now()
	r.m.notifications = append(r.m.notifications, notification)
	return nil
}

func (r *mockNotificationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, n := range r.m.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.NewNotFoundError("notification", fmt.Sprint(id))
}

func (r *mockNotificationRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*models.Notification, error) {
	return r.m.notificationsFor(userID), nil
}

func (r *mockNotificationRepo) CountUnread(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	var count int64
	for _, n := range r.m.notificationsFor(userID) {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *mockNotificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, id uint) error {
	n, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}
	n.IsRead = true
	return nil
}

func (r *mockNotificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, userID string) error {
	for _, n := range r.m.notificationsFor(userID) {
		n.IsRead = true
	}
	return nil
}

func (r *mockNotificationRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, n := range r.m.notifications {
		if n.ID == id {
			r.m.notifications = append(r.m.notifications[:i], r.m.notifications[i+1:]...)
			return nil
		}
	}
	return repositories.NewNotFoundError("notification", fmt.Sprint(id))
}

// ===== AUDIT LOG =====

type mockAuditLogRepo struct{ m *mockRepository }

func (r *mockAuditLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *models.AuditLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	entry.ID = uint(len(r.m.auditEntries) + 1)
	entry.CreatedAt = time.Now()
	r.m.auditEntries = append(r.m.auditEntries, entry)
	return nil
}

func (r *mockAuditLogRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.AuditLog, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.auditEntries, int64(len(r.m.auditEntries)), nil
}

// ===== STATS =====

type mockStatsRepo struct{ m *mockRepository }

func (r *mockStatsRepo) GetPlatformStats(ctx context.Context) (*repositories.PlatformStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stats := &repositories.PlatformStats{
		UsersByRole: make(map[string]int64),
	}
	for _, u := range r.m.users {
		stats.TotalUsers++
		if u.IsActive {
			stats.ActiveUsers++
		}
		stats.UsersByRole[string(u.Role)]++
	}
	for _, q := range r.m.questions {
		stats.TotalQuestions++
		if q.IsResolved {
			stats.ResolvedQuestions++
		}
		if q.IsArchived {
			stats.ArchivedQuestions++
		}
	}
	stats.UnresolvedQuestions = stats.TotalQuestions - stats.ResolvedQuestions
	for _, a := range r.m.answers {
		stats.TotalAnswers++
		if a.IsVerified {
			stats.VerifiedAnswers++
		}
	}
	return stats, nil
}

// ===== IDENTITY STUB =====

type stubIdentityProvider struct {
	identity *repositories.Identity
	err      error
}

func (s *stubIdentityProvider) SigninURL(state string) string {
	return "https://sso.example.com/login?state=" + state
}

func (s *stubIdentityProvider) VerifyCode(ctx context.Context, code, state string) (*repositories.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}
