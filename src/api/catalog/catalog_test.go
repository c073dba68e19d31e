package catalog

import (
	"fmt"
	"testing"

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

func TestCreateAppendsAtEnd(t *testing.T) {
	svc := New(testDB(t))

	a, err := svc.Create("A", types.QuestionScale, nil)
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	b, err := svc.Create("B", types.QuestionMultipleChoice, []string{"x", "y"})
	if err != nil {
		t.Fatalf("create B: %v", err)
	}

	if a.Order != 0 || b.Order != 1 {
		t.Fatalf("want orders 0,1 got %d,%d", a.Order, b.Order)
	}
	if len(b.Options) != 2 {
		t.Fatalf("want 2 options got %d", len(b.Options))
	}

	qs, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(qs) != 2 || qs[0].Text != "A" || qs[1].Text != "B" {
		t.Fatalf("unexpected catalog %+v", qs)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(testDB(t))

	if _, err := svc.Create("  ", types.QuestionScale, nil); err != ErrEmptyText {
		t.Fatalf("want ErrEmptyText got %v", err)
	}
	if _, err := svc.Create("Q", "likert", nil); err != ErrBadType {
		t.Fatalf("want ErrBadType got %v", err)
	}

	// Options are dropped for non-choice questions.
	q, err := svc.Create("Q", types.QuestionText, []string{"stray"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(q.Options) != 0 {
		t.Fatalf("options kept for text question: %v", q.Options)
	}
}

func TestReorder(t *testing.T) {
	svc := New(testDB(t))

	var ids []uint64
	for _, text := range []string{"A", "B", "C"} {
		q, err := svc.Create(text, types.QuestionScale, nil)
		if err != nil {
			t.Fatalf("create %s: %v", text, err)
		}
		ids = append(ids, q.ID)
	}

	// Move C to the front.
	if err := svc.Reorder([]uint64{ids[2], ids[0], ids[1]}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	qs, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{qs[0].Text, qs[1].Text, qs[2].Text}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v got %v", want, got)
		}
	}
}

func TestReorderUnknownIDRollsBack(t *testing.T) {
	svc := New(testDB(t))

	a, _ := svc.Create("A", types.QuestionScale, nil)
	b, _ := svc.Create("B", types.QuestionScale, nil)

	if err := svc.Reorder([]uint64{b.ID, 999, a.ID}); err != ErrNotFound {
		t.Fatalf("want ErrNotFound got %v", err)
	}

	// The partial update was rolled back.
	qs, _ := svc.List()
	if qs[0].Text != "A" || qs[1].Text != "B" {
		t.Fatalf("order changed despite rollback: %+v", qs)
	}
}

func TestDeleteCascades(t *testing.T) {
	db := testDB(t)
	svc := New(db)

	q, _ := svc.Create("Q", types.QuestionScale, nil)
	other, _ := svc.Create("Other", types.QuestionScale, nil)

	for i, qid := range []uint64{q.ID, q.ID, other.ID} {
		row := types.Response{
			SubmissionID: fmt.Sprintf("sub-%d", i),
			QuestionID:   &qid,
			Response:     "5",
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed response: %v", err)
		}
	}

	if err := svc.Delete(q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var left int64
	db.Model(&types.Response{}).Where("question_id = ?", q.ID).Count(&left)
	if left != 0 {
		t.Fatalf("want 0 responses left got %d", left)
	}
	var others int64
	db.Model(&types.Response{}).Where("question_id = ?", other.ID).Count(&others)
	if others != 1 {
		t.Fatalf("cascade deleted unrelated responses: %d", others)
	}

	qs, _ := svc.List()
	if len(qs) != 1 || qs[0].ID != other.ID {
		t.Fatalf("question still listed: %+v", qs)
	}

	if err := svc.Delete(q.ID); err != ErrNotFound {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}
