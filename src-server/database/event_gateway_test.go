package database_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"bulletin/src-server/database"
	"bulletin/src-server/model"
	"bulletin/src-server/utils"
)

func newGateway(t *testing.T) *database.EventGateway {
	t.Helper()
	cfg, err := utils.NewConfig(func(key string) string {
		if key == "APP_MODE" {
			return "test"
		}
		return ""
	})
	if err != nil {
		t.Fatal(err)
	}
	gw, err := database.Open(context.Background(), cfg, utils.NewMetric())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := gw.Close(); err != nil {
			t.Error(err)
		}
	})
	return gw
}

var (
	testDate = model.Date{Year: 2026, Month: time.August, Day: 5}
	testTime = model.TimeOfDay{Hour: 10, Minute: 15, Second: 33}
)

func TestCreateThenListAll(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	events, err := gw.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty table, got %d events", len(events))
	}

	created, err := gw.Create(ctx, "Test Event", testDate, testTime)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Error("id was not assigned")
	}

	events, err = gw.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.ID != created.ID || got.Title != "Test Event" || got.Date != testDate || got.Time != testTime {
		t.Errorf("stored event = %+v", got)
	}
}

func TestListAllInsertionOrder(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	titles := []string{"Zumba", "Book club", "Allotment day"}
	for _, title := range titles {
		if _, err := gw.Create(ctx, title, testDate, testTime); err != nil {
			t.Fatal(err)
		}
	}
	events, err := gw.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i, event := range events {
		if event.Title != titles[i] {
			t.Errorf("events[%d] = %q, want %q", i, event.Title, titles[i])
		}
	}
}

func TestCreateDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	if _, err := gw.Create(ctx, "A", testDate, testTime); err != nil {
		t.Fatal(err)
	}
	_, err := gw.Create(ctx, "A", model.Date{Year: 2026, Month: time.August, Day: 6}, testTime)
	if !errors.Is(err, model.ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}

	events, err := gw.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Date != testDate {
		t.Errorf("table should only hold the first event, got %+v", events)
	}
}

func TestCreateConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = gw.Create(ctx, "Race", testDate, testTime)
		}(i)
	}
	wg.Wait()

	succeeded, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, model.ErrDuplicateTitle):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || duplicates != 1 {
		t.Errorf("succeeded=%d duplicates=%d", succeeded, duplicates)
	}
}

func TestCreateInvalidData(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	tests := []struct {
		name  string
		title string
		date  model.Date
		tod   model.TimeOfDay
	}{
		{"blank title", "", testDate, testTime},
		{"long title", strings.Repeat("x", 31), testDate, testTime},
		{"missing date", "No date", model.Date{}, testTime},
		{"bad time", "Bad time", testDate, model.TimeOfDay{Hour: 24}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := gw.Create(ctx, tt.title, tt.date, tt.tod); !errors.Is(err, model.ErrInvalidData) {
				t.Errorf("expected ErrInvalidData, got %v", err)
			}
		})
	}

	events, err := gw.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("nothing should be written, got %d events", len(events))
	}
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	created, err := gw.Create(ctx, "Quiz night", testDate, testTime)
	if err != nil {
		t.Fatal(err)
	}
	got, err := gw.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Quiz night" {
		t.Errorf("title = %q", got.Title)
	}

	if _, err := gw.GetByID(ctx, created.ID+100); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	first, err := gw.Create(ctx, "First", testDate, testTime)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := gw.Create(ctx, "Second", testDate, testTime); err != nil {
		t.Fatal(err)
	}

	newDate := model.Date{Year: 2027, Month: time.January, Day: 2}
	newTime := model.TimeOfDay{Hour: 18, Minute: 30}
	if _, err := gw.Update(ctx, first.ID, "First, moved", newDate, newTime); err != nil {
		t.Fatal(err)
	}
	got, err := gw.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "First, moved" || got.Date != newDate || got.Time != newTime {
		t.Errorf("updated event = %+v", got)
	}

	// keeping its own title is not a duplicate
	if _, err := gw.Update(ctx, first.ID, "First, moved", testDate, testTime); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := gw.Update(ctx, first.ID, "Second", testDate, testTime); !errors.Is(err, model.ErrDuplicateTitle) {
		t.Errorf("expected ErrDuplicateTitle, got %v", err)
	}
	if _, err := gw.Update(ctx, first.ID, "", testDate, testTime); !errors.Is(err, model.ErrInvalidData) {
		t.Errorf("expected ErrInvalidData, got %v", err)
	}

	got, err = gw.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "First, moved" || got.Date != testDate {
		t.Errorf("failed updates must roll back, got %+v", got)
	}
}

func TestUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	created, err := gw.Create(ctx, "Only", testDate, testTime)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := gw.Update(ctx, created.ID+1, "Other", testDate, testTime); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	events, err := gw.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Title != "Only" {
		t.Errorf("table changed: %+v", events)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	created, err := gw.Create(ctx, "Gone soon", testDate, testTime)
	if err != nil {
		t.Fatal(err)
	}
	if err := gw.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := gw.GetByID(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := gw.Delete(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestEmptyRead(t *testing.T) {
	gw := newGateway(t)
	if _, err := gw.EmptyRead(context.Background()); err != nil {
		t.Error(err)
	}
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantDriver database.Driver
		wantDSN    string
	}{
		{"postgres://u:p@db/bulletin", database.DRIVER_POSTGRES, "postgres://u:p@db/bulletin"},
		{"postgresql://db/bulletin", database.DRIVER_POSTGRES, "postgresql://db/bulletin"},
		{"sqlite:///community.db", database.DRIVER_SQLITE, "community.db"},
		{"./community.db?mode=rwc", database.DRIVER_SQLITE, "./community.db?mode=rwc"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			driver, dsn := database.ParseURI(tt.uri)
			if driver != tt.wantDriver || dsn != tt.wantDSN {
				t.Errorf("ParseURI(%q) = %q, %q", tt.uri, driver, dsn)
			}
		})
	}
}
