package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionCategory string

const (
	CategoryGeneral        QuestionCategory = "General"
	CategoryTechnical      QuestionCategory = "Technical"
	CategoryAcademic       QuestionCategory = "Academic"
	CategoryAdministrative QuestionCategory = "Administrative"
	CategoryOther          QuestionCategory = "Other"
)

type QuestionPriority string

const (
	PriorityLow    QuestionPriority = "low"
	PriorityMedium QuestionPriority = "medium"
	PriorityHigh   QuestionPriority = "high"
)

// Question is a student-posted question. Resolved and archived are
// independent flags; archived questions stay out of default listings but
// keep their resolution state.
type Question struct {
	ID       uint             `json:"id" gorm:"primaryKey"`
	Title    string           `json:"title" gorm:"not null;size:200"`
	Content  string           `json:"content" gorm:"not null;type:text"`
	Category QuestionCategory `json:"category" gorm:"not null;size:50;index"`
	Priority QuestionPriority `json:"priority" gorm:"not null;size:20;default:medium"`

	AuthorID string `json:"author_id" gorm:"not null;size:255;index"`
	Author   *User  `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	IsResolved bool `json:"is_resolved" gorm:"not null;default:false"`
	IsArchived bool `json:"is_archived" gorm:"not null;default:false;index"`
	Views      int  `json:"views" gorm:"not null;default:0"`

	Tags  datatypes.JSON `json:"tags"`
	Likes []QuestionLike `json:"likes,omitempty" gorm:"foreignKey:QuestionID"`

	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionLike records one user's like of a question. The composite
// primary key makes repeated likes by the same user a no-op.
type QuestionLike struct {
	QuestionID uint      `json:"question_id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"primaryKey;size:255"`
	CreatedAt  time.Time `json:"created_at"`
}

func (QuestionLike) TableName() string {
	return "question_likes"
}

// ValidCategory reports whether category is one of the enumerated values.
func ValidCategory(category QuestionCategory) bool {
	switch category {
	case CategoryGeneral, CategoryTechnical, CategoryAcademic, CategoryAdministrative, CategoryOther:
		return true
	}
	return false
}

// ValidPriority reports whether priority is one of the enumerated values.
func ValidPriority(priority QuestionPriority) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
