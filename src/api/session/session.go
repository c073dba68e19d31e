package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulseform/survey-api/src/api/types"
)

// Session states. A session is Active while questions remain, collecting
// contact info once every question is answered, and Complete only after its
// submission batch has been persisted.
const (
	StateActive            = "active"
	StateCollectingContact = "collecting_contact"
	StateComplete          = "complete"
)

var (
	ErrEmptyCatalog  = errors.New("catalog is empty")
	ErrNotActive     = errors.New("session is not accepting answers")
	ErrEmptyAnswer   = errors.New("answer is empty")
	ErrNotCollecting = errors.New("session is not ready to submit")
	ErrNotFound      = errors.New("session not found")
)

// Snapshot is a question as it looked when the session started. Later catalog
// edits do not affect a running session.
type Snapshot struct {
	ID      uint64   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// AnswerRecord pairs a snapshot question with the respondent's answer.
// Records are kept in the order they were given.
type AnswerRecord struct {
	QuestionID uint64 `json:"question_id"`
	Response   string `json:"response"`
}

type Session struct {
	ID        string         `json:"id"`
	State     string         `json:"state"`
	Index     int            `json:"index"`
	Questions []Snapshot     `json:"questions"`
	Answers   []AnswerRecord `json:"answers"`
	CreatedAt time.Time      `json:"created_at"`
}

// New starts a session over a snapshot of the given catalog. An empty catalog
// is rejected outright instead of leaving the respondent on a loading state
// that never resolves.
func New(questions []types.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyCatalog
	}
	snap := make([]Snapshot, len(questions))
	for i, q := range questions {
		snap[i] = Snapshot{ID: q.ID, Text: q.Text, Type: q.Type, Options: []string(q.Options)}
	}
	return &Session{
		ID:        uuid.NewString(),
		State:     StateActive,
		Questions: snap,
		CreatedAt: time.Now(),
	}, nil
}

// Current returns the question awaiting an answer, or false when the session
// has moved past the last question.
func (s *Session) Current() (Snapshot, bool) {
	if s.State != StateActive || s.Index >= len(s.Questions) {
		return Snapshot{}, false
	}
	return s.Questions[s.Index], true
}

// Answer records a response for the current question and advances. Text
// questions require a non-empty response; scale and multiple_choice accept
// whatever was clicked. There is no backward navigation and no revision.
func (s *Session) Answer(response string) error {
	q, ok := s.Current()
	if !ok {
		return ErrNotActive
	}
	if q.Type == types.QuestionText && strings.TrimSpace(response) == "" {
		return ErrEmptyAnswer
	}
	s.Answers = append(s.Answers, AnswerRecord{QuestionID: q.ID, Response: response})
	s.Index++
	if s.Index == len(s.Questions) {
		s.State = StateCollectingContact
	}
	return nil
}

// Complete marks the session finished. Only valid from CollectingContact;
// the assembler calls this after the batch insert succeeds, so a failed
// submit leaves the session (and its answers) in place for a retry.
func (s *Session) Complete() error {
	if s.State != StateCollectingContact {
		return ErrNotCollecting
	}
	s.State = StateComplete
	return nil
}
