package repositories

import "context"

// PlatformStats are the aggregate counts behind the admin dashboard.
type PlatformStats struct {
	TotalUsers          int64            `json:"total_users"`
	ActiveUsers         int64            `json:"active_users"`
	UsersByRole         map[string]int64 `json:"users_by_role"`
	TotalQuestions      int64            `json:"total_questions"`
	ResolvedQuestions   int64            `json:"resolved_questions"`
	UnresolvedQuestions int64            `json:"unresolved_questions"`
	ArchivedQuestions   int64            `json:"archived_questions"`
	TotalAnswers        int64            `json:"total_answers"`
	VerifiedAnswers     int64            `json:"verified_answers"`
}

// StatsRepository computes admin dashboard aggregates.
type StatsRepository interface {
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
}
