package aggregate

import (
	"context"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/pulseform/survey-api/src/api/types"
)

// Submission is a synthetic record regrouping the response rows that share a
// submission ID. Contact fields are duplicated on every row, so the group
// carries them from its first member.
type Submission struct {
	SubmissionID string           `json:"submission_id"`
	CreatedAt    time.Time        `json:"created_at"`
	Instagram    string           `json:"instagram"`
	PhoneNumber  string           `json:"phone_number"`
	Responses    []types.Response `json:"responses"`
}

// Service reads raw response rows back out for the admin review view.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service { return Service{db: db} }

// FetchAll returns every response row, newest first.
func (s Service) FetchAll(ctx context.Context) ([]types.Response, error) {
	var rows []types.Response
	err := s.db.WithContext(ctx).Order("created_at desc, id desc").Find(&rows).Error
	return rows, err
}

// FilterByQuestion narrows to the rows answering one question, newest first.
func (s Service) FilterByQuestion(ctx context.Context, questionID uint64) ([]types.Response, error) {
	var rows []types.Response
	err := s.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at desc, id desc").
		Find(&rows).Error
	return rows, err
}

// SortScale orders scale responses by the numeric value of their string
// payload. Rows whose payload does not parse go to a trailing bucket in
// their original order rather than sorting as undefined.
func SortScale(rows []types.Response, desc bool) []types.Response {
	type scored struct {
		row types.Response
		val float64
	}
	parsed := make([]scored, 0, len(rows))
	unparseable := make([]types.Response, 0)
	for _, r := range rows {
		v, err := strconv.ParseFloat(r.Response, 64)
		if err != nil {
			unparseable = append(unparseable, r)
			continue
		}
		parsed = append(parsed, scored{row: r, val: v})
	}
	sort.SliceStable(parsed, func(i, j int) bool {
		if desc {
			return parsed[i].val > parsed[j].val
		}
		return parsed[i].val < parsed[j].val
	})

	out := make([]types.Response, 0, len(rows))
	for _, p := range parsed {
		out = append(out, p.row)
	}
	return append(out, unparseable...)
}

// GroupBySubmission regroups rows by submission ID, one group per completed
// questionnaire session, groups ordered newest first.
func GroupBySubmission(rows []types.Response) []Submission {
	index := make(map[string]int)
	groups := make([]Submission, 0)
	for _, r := range rows {
		i, ok := index[r.SubmissionID]
		if !ok {
			i = len(groups)
			index[r.SubmissionID] = i
			groups = append(groups, Submission{
				SubmissionID: r.SubmissionID,
				CreatedAt:    r.CreatedAt,
				Instagram:    r.Instagram,
				PhoneNumber:  r.PhoneNumber,
			})
		}
		groups[i].Responses = append(groups[i].Responses, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})
	return groups
}
