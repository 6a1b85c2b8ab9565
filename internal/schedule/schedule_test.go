package schedule

import (
	"context"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Schedule{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestDescribe(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)

	row := Schedule{
		UserID:    "42",
		Name:      "Asha",
		Event:     "dental checkup",
		EventDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.Describe(context.Background(), "42")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	want := "Hi Asha, your dental checkup is on 2025-03-14"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDescribe_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)

	got, err := repo.Describe(context.Background(), "missing")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if got != notFoundReply {
		t.Fatalf("got %q, want %q", got, notFoundReply)
	}
}

func TestDescribe_FirstRowWins(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)

	rows := []Schedule{
		{UserID: "7", Name: "Ravi", Event: "X-ray", EventDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{UserID: "7", Name: "Ravi", Event: "follow-up", EventDate: time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.Describe(context.Background(), "7")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if got != "Hi Ravi, your X-ray is on 2025-01-02" {
		t.Fatalf("unexpected sentence: %q", got)
	}
}
