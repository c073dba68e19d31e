package catalog

import (
	"errors"
	"strings"

	"github.com/pulseform/survey-api/src/api/types"
	"gorm.io/gorm"
)

var (
	ErrEmptyText = errors.New("question text is empty")
	ErrBadType   = errors.New("unknown question type")
	ErrNotFound  = errors.New("question not found")
)

// Service owns the question catalog: the ordered list of questions shown to
// respondents and edited from the admin console.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service { return Service{db: db} }

// List returns the full catalog ordered ascending by position, ties broken
// by insertion order.
func (s Service) List() ([]types.Question, error) {
	var qs []types.Question
	err := s.db.Order(`"order" asc, id asc`).Find(&qs).Error
	return qs, err
}

// Create appends a question at the end of the catalog (position = current
// catalog size). Options are kept only for multiple_choice questions.
func (s Service) Create(text, qtype string, options []string) (types.Question, error) {
	if strings.TrimSpace(text) == "" {
		return types.Question{}, ErrEmptyText
	}
	switch qtype {
	case types.QuestionScale, types.QuestionText, types.QuestionMultipleChoice:
	default:
		return types.Question{}, ErrBadType
	}
	if qtype != types.QuestionMultipleChoice {
		options = nil
	}

	var q types.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&types.Question{}).Count(&count).Error; err != nil {
			return err
		}
		q = types.Question{
			Text:    text,
			Type:    qtype,
			Options: types.OptionList(options),
			Order:   int(count),
		}
		return tx.Create(&q).Error
	})
	return q, err
}

// Reorder rewrites the position of every listed question to its index in the
// given sequence, in one transaction so a mid-sequence failure cannot leave
// the catalog half-reordered.
func (s Service) Reorder(ids []uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for pos, id := range ids {
			res := tx.Model(&types.Question{}).Where("id = ?", id).Update("order", pos)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}

// Delete removes a question and every response referencing it. The cascade is
// application-enforced; the schema keeps question_id as a weak reference.
func (s Service) Delete(id uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&types.Response{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&types.Question{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
