package models

import "time"

// Answer belongs to a question. Accepted is set by the question author or
// a moderator; verified is a teacher/admin endorsement and the two flags
// are independent.
type Answer struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Content string `json:"content" gorm:"not null;type:text"`

	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Question   *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`

	AuthorID string `json:"author_id" gorm:"not null;size:255;index"`
	Author   *User  `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	IsAccepted bool `json:"is_accepted" gorm:"not null;default:false"`
	IsVerified bool `json:"is_verified" gorm:"not null;default:false"`

	Likes    []AnswerLike `json:"likes,omitempty" gorm:"foreignKey:AnswerID"`
	Comments []Comment    `json:"comments,omitempty" gorm:"foreignKey:AnswerID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Answer) TableName() string {
	return "answers"
}

type AnswerLike struct {
	AnswerID  uint      `json:"answer_id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"primaryKey;size:255"`
	CreatedAt time.Time `json:"created_at"`
}

func (AnswerLike) TableName() string {
	return "answer_likes"
}

// Comment is a short reply attached to an answer, ordered by creation time.
type Comment struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Content string `json:"content" gorm:"not null;size:1000"`

	AnswerID uint   `json:"answer_id" gorm:"not null;index"`
	AuthorID string `json:"author_id" gorm:"not null;size:255"`
	Author   *User  `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	Likes []CommentLike `json:"likes,omitempty" gorm:"foreignKey:CommentID"`

	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

type CommentLike struct {
	CommentID uint      `json:"comment_id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"primaryKey;size:255"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
