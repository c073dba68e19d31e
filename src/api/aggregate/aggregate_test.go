package aggregate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pulseform/survey-api/src/api/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Question{}, &types.Response{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func row(sub string, qid uint64, resp string) types.Response {
	return types.Response{SubmissionID: sub, QuestionID: &qid, Response: resp}
}

func TestSortScale(t *testing.T) {
	rows := []types.Response{
		row("s1", 1, "3"),
		row("s2", 1, "10"),
		row("s3", 1, "7"),
	}

	desc := SortScale(rows, true)
	if got := []string{desc[0].Response, desc[1].Response, desc[2].Response}; got[0] != "10" || got[1] != "7" || got[2] != "3" {
		t.Fatalf("desc: got %v", got)
	}

	asc := SortScale(rows, false)
	if got := []string{asc[0].Response, asc[1].Response, asc[2].Response}; got[0] != "3" || got[1] != "7" || got[2] != "10" {
		t.Fatalf("asc: got %v", got)
	}
}

func TestSortScaleUnparseableBucket(t *testing.T) {
	rows := []types.Response{
		row("s1", 1, "maybe"),
		row("s2", 1, "2"),
		row("s3", 1, "n/a"),
		row("s4", 1, "9"),
	}

	got := SortScale(rows, true)
	if got[0].Response != "9" || got[1].Response != "2" {
		t.Fatalf("numeric prefix wrong: %q %q", got[0].Response, got[1].Response)
	}
	// Unparseable payloads trail in their original order.
	if got[2].Response != "maybe" || got[3].Response != "n/a" {
		t.Fatalf("unparseable bucket wrong: %q %q", got[2].Response, got[3].Response)
	}
}

func TestGroupBySubmission(t *testing.T) {
	now := time.Now()
	older := now.Add(-time.Hour)

	rows := []types.Response{
		{SubmissionID: "a", Response: "1", Instagram: "@a", PhoneNumber: "111", CreatedAt: older},
		{SubmissionID: "a", Response: "2", Instagram: "@a", PhoneNumber: "111", CreatedAt: older},
		{SubmissionID: "a", Response: "3", Instagram: "@a", PhoneNumber: "111", CreatedAt: older},
		{SubmissionID: "b", Response: "x", Instagram: "@b", CreatedAt: now},
		{SubmissionID: "b", Response: "y", Instagram: "@b", CreatedAt: now},
	}

	groups := GroupBySubmission(rows)
	if len(groups) != 2 {
		t.Fatalf("want 2 groups got %d", len(groups))
	}

	// Newest submission first.
	if groups[0].SubmissionID != "b" || groups[1].SubmissionID != "a" {
		t.Fatalf("group order wrong: %s, %s", groups[0].SubmissionID, groups[1].SubmissionID)
	}
	if len(groups[0].Responses) != 2 || len(groups[1].Responses) != 3 {
		t.Fatalf("group sizes wrong: %d, %d", len(groups[0].Responses), len(groups[1].Responses))
	}
	for _, g := range groups {
		for _, r := range g.Responses {
			if r.SubmissionID != g.SubmissionID {
				t.Fatalf("group %s contains row from %s", g.SubmissionID, r.SubmissionID)
			}
		}
	}
	if groups[0].Instagram != "@b" || groups[1].PhoneNumber != "111" {
		t.Fatalf("contact fields not carried: %+v", groups)
	}
}

func TestFetchAllNewestFirst(t *testing.T) {
	db := testDB(t)
	svc := New(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		r := row(fmt.Sprintf("s%d", i), 1, fmt.Sprint(i))
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rows, err := svc.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 3 || rows[0].SubmissionID != "s2" || rows[2].SubmissionID != "s0" {
		t.Fatalf("unexpected order: %+v", rows)
	}
}

func TestFilterByQuestion(t *testing.T) {
	db := testDB(t)
	svc := New(db)
	ctx := context.Background()

	for _, r := range []types.Response{row("s1", 1, "5"), row("s1", 2, "hello"), row("s2", 1, "9")} {
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rows, err := svc.FilterByQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows got %d", len(rows))
	}
	for _, r := range rows {
		if r.QuestionID == nil || *r.QuestionID != 1 {
			t.Fatalf("row for wrong question: %+v", r)
		}
	}
}
