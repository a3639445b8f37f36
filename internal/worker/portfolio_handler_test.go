package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"foliogen/internal/ai"
	"foliogen/internal/database"
	"foliogen/internal/errcode"
	"foliogen/internal/tasks"
)

type fakeGenerator struct {
	html string
	err  error

	requests []ai.PortfolioRequest
}

func (g *fakeGenerator) GeneratePortfolio(_ context.Context, req ai.PortfolioRequest) (string, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	return g.html, nil
}

type fakeObjectStore struct {
	uploaded map[string][]byte
}

func (s *fakeObjectStore) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	if s.uploaded == nil {
		s.uploaded = map[string][]byte{}
	}
	b, _ := io.ReadAll(reader)
	s.uploaded[objectName] = b
	return &minio.UploadInfo{}, nil
}

type fakePublisher struct {
	channels []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.channels = append(p.channels, channel)
	if b, ok := message.([]byte); ok {
		p.payloads = append(p.payloads, b)
	}
	return redis.NewIntResult(1, nil)
}

func newWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.User{}, &database.Resume{}, &database.Portfolio{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedPortfolio(t *testing.T, db *gorm.DB) database.Portfolio {
	t.Helper()
	resume := database.Resume{
		Title:   "Backend Engineer",
		Content: datatypes.JSON([]byte(`{"personalInfo":{"name":"Ada"}}`)),
		UserID:  7,
	}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	portfolio := database.Portfolio{
		Title:    "Backend Engineer",
		Theme:    "modern",
		Palette:  "violet",
		Status:   database.PortfolioStatusPending,
		ResumeID: resume.ID,
		UserID:   7,
	}
	if err := db.Create(&portfolio).Error; err != nil {
		t.Fatalf("seed portfolio: %v", err)
	}
	return portfolio
}

func TestProcessTask_CompletesPortfolio(t *testing.T) {
	db := newWorkerTestDB(t)
	portfolio := seedPortfolio(t, db)

	gen := &fakeGenerator{html: "<html><body>site</body></html>"}
	store := &fakeObjectStore{}
	pub := &fakePublisher{}
	h := NewPortfolioTaskHandler(db, gen, store, pub, slog.Default())

	task, err := tasks.NewPortfolioGenerateTask(portfolio.ID, "corr-1")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}

	var got database.Portfolio
	if err := db.First(&got, portfolio.ID).Error; err != nil {
		t.Fatalf("reload portfolio: %v", err)
	}
	if got.Status != database.PortfolioStatusCompleted {
		t.Fatalf("expected completed status, got %q", got.Status)
	}
	if got.HTML != gen.html {
		t.Fatalf("html not persisted: %q", got.HTML)
	}
	if got.ObjectKey == "" {
		t.Fatalf("object key not recorded")
	}
	if _, ok := store.uploaded[got.ObjectKey]; !ok {
		t.Fatalf("html not archived under %q", got.ObjectKey)
	}

	if len(gen.requests) != 1 {
		t.Fatalf("expected one generation call, got %d", len(gen.requests))
	}
	if gen.requests[0].Theme != "modern" || gen.requests[0].Palette != "violet" {
		t.Fatalf("unexpected generation request: %+v", gen.requests[0])
	}

	if len(pub.channels) != 1 || pub.channels[0] != "user_notify:7" {
		t.Fatalf("unexpected notify channels: %v", pub.channels)
	}
	var notify PortfolioGenerationNotifyMessage
	if err := json.Unmarshal(pub.payloads[0], &notify); err != nil {
		t.Fatalf("decode notify: %v", err)
	}
	if notify.Status != "completed" || notify.ErrorCode != errcode.OK {
		t.Fatalf("unexpected notify: %+v", notify)
	}
}

func TestProcessTask_MissingPortfolioSkips(t *testing.T) {
	db := newWorkerTestDB(t)
	gen := &fakeGenerator{html: "<html></html>"}
	h := NewPortfolioTaskHandler(db, gen, &fakeObjectStore{}, &fakePublisher{}, slog.Default())

	task, err := tasks.NewPortfolioGenerateTask(999, "corr-2")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected missing portfolio to be skipped, got %v", err)
	}
	if len(gen.requests) != 0 {
		t.Fatalf("generator should not run for missing portfolio")
	}
}

func TestProcessTask_ValidationFailureAbandons(t *testing.T) {
	db := newWorkerTestDB(t)
	portfolio := seedPortfolio(t, db)

	gen := &fakeGenerator{err: &ai.Error{Kind: ai.KindValidation, Message: "resume data must be a JSON object"}}
	pub := &fakePublisher{}
	h := NewPortfolioTaskHandler(db, gen, &fakeObjectStore{}, pub, slog.Default())

	task, err := tasks.NewPortfolioGenerateTask(portfolio.ID, "corr-3")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	err = h.ProcessTask(context.Background(), task)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected skip retry error, got %v", err)
	}

	var got database.Portfolio
	if err := db.First(&got, portfolio.ID).Error; err != nil {
		t.Fatalf("reload portfolio: %v", err)
	}
	if got.Status != database.PortfolioStatusFailed {
		t.Fatalf("expected failed status, got %q", got.Status)
	}

	var notify PortfolioGenerationNotifyMessage
	if err := json.Unmarshal(pub.payloads[0], &notify); err != nil {
		t.Fatalf("decode notify: %v", err)
	}
	if notify.Status != "error" || notify.ErrorCode != errcode.GenerationFailed {
		t.Fatalf("unexpected notify: %+v", notify)
	}
	if notify.ErrorMessage != "resume data must be a JSON object" {
		t.Fatalf("unexpected error message: %q", notify.ErrorMessage)
	}
}
