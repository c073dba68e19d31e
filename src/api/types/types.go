package types

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Question types
const (
	QuestionScale          = "scale"
	QuestionText           = "text"
	QuestionMultipleChoice = "multiple_choice"
)

// OptionList is a question's choice set. Postgres stores it as a native
// text[] via pq.StringArray; other dialects (sqlite in tests) get a plain
// text column holding the same array literal.
type OptionList pq.StringArray

func (OptionList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (o OptionList) Value() (driver.Value, error) {
	return pq.StringArray(o).Value()
}

func (o *OptionList) Scan(src interface{}) error {
	return (*pq.StringArray)(o).Scan(src)
}

// Questions presented to respondents, ordered by Order ascending.
type Question struct {
	ID        uint64     `gorm:"primaryKey" json:"id"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	Type      string     `gorm:"size:32;not null" json:"type"`
	Options   OptionList `json:"options,omitempty"`
	Order     int        `gorm:"column:order;not null" json:"order"`
	CreatedAt time.Time  `json:"created_at"`
}

// Responses, one row per answered question. Rows from one questionnaire
// session share a SubmissionID. Contact fields are duplicated onto every
// row of a submission rather than normalized out.
type Response struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	SubmissionID string    `gorm:"size:36;index;not null" json:"submission_id"`
	QuestionID   *uint64   `gorm:"index" json:"question_id"`
	Response     string    `gorm:"type:text;not null" json:"response"`
	Instagram    string    `gorm:"size:128" json:"instagram"`
	PhoneNumber  string    `gorm:"size:32" json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
}

// Admin accounts. One is seeded at startup from config.
type AdminUser struct {
	ID           uint64 `gorm:"primaryKey"`
	Email        string `gorm:"size:256;unique;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	CreatedAt    time.Time
}
