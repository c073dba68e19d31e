package submission

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pulseform/survey-api/src/api/data"
	"github.com/pulseform/survey-api/src/api/session"
	"github.com/pulseform/survey-api/src/api/types"
)

// Contact is the optional contact sub-form shown after the last question.
type Contact struct {
	Instagram   string
	PhoneNumber string
}

// Assembler packages a finished session into one batch of response rows
// sharing a fresh submission ID and persists them in a single insert.
type Assembler struct {
	db  *gorm.DB
	rdb *redis.Client
}

// New returns an assembler. rdb may be nil; submission events are then skipped.
func New(db *gorm.DB, rdb *redis.Client) Assembler {
	return Assembler{db: db, rdb: rdb}
}

// Submit expands the session's answers into response rows, all carrying the
// same generated submission ID and contact fields, and inserts them as one
// batch. On failure the session stays on the contact step with its answers
// intact, so a retry re-attempts the same batch. The session is Complete only
// after the insert succeeds.
func (a Assembler) Submit(ctx context.Context, sess *session.Session, contact Contact) (string, error) {
	if sess.State != session.StateCollectingContact {
		return "", session.ErrNotCollecting
	}

	id := uuid.NewString()
	rows := make([]types.Response, len(sess.Answers))
	for i, ans := range sess.Answers {
		qid := ans.QuestionID
		rows[i] = types.Response{
			SubmissionID: id,
			QuestionID:   &qid,
			Response:     ans.Response,
			Instagram:    contact.Instagram,
			PhoneNumber:  contact.PhoneNumber,
		}
	}

	if err := a.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return "", err
	}
	if err := sess.Complete(); err != nil {
		return "", err
	}

	if a.rdb != nil {
		_ = data.PublishSubmission(ctx, a.rdb, map[string]interface{}{
			"submission_id": id,
			"answers":       len(rows),
			"instagram":     contact.Instagram,
			"phone_number":  contact.PhoneNumber,
		})
	}

	return id, nil
}
