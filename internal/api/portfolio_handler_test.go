package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"foliogen/internal/database"
)

type fakePortfolioStorage struct {
	uploaded  []string
	deleted   []string
	presigned []string
}

func (s *fakePortfolioStorage) UploadFile(_ context.Context, objectName string, _ io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	s.uploaded = append(s.uploaded, objectName)
	return &minio.UploadInfo{Key: objectName}, nil
}

func (s *fakePortfolioStorage) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	s.presigned = append(s.presigned, objectKey)
	return "https://example.invalid/" + objectKey, nil
}

func (s *fakePortfolioStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func seedCompletedPortfolio(t *testing.T, db *gorm.DB, userID uint) database.Portfolio {
	t.Helper()
	p := database.Portfolio{
		Title:     "My Site",
		Theme:     "modern",
		Palette:   "violet",
		HTML:      "<html></html>",
		ObjectKey: "portfolios/1/1.html",
		Status:    database.PortfolioStatusCompleted,
		ResumeID:  1,
		UserID:    userID,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed portfolio: %v", err)
	}
	return p
}

func TestCreatePortfolio_PersistsRowAndArchives(t *testing.T) {
	db := newTestDB(t)
	store := &fakePortfolioStorage{}
	h := NewPortfolioHandler(db, store, slog.Default())

	resume := database.Resume{Title: "CV", Content: datatypes.JSON(`{"personalInfo":{}}`), UserID: 1}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	c, w := newAuthedContext(t, 1, http.MethodPost, "/v1/portfolios",
		`{"title":"My Site","html":"<html></html>","resume_id":`+strconv.Itoa(int(resume.ID))+`,"theme":"modern","palette":"violet"}`)

	h.CreatePortfolio(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var stored database.Portfolio
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("load portfolio: %v", err)
	}
	if stored.Status != database.PortfolioStatusCompleted {
		t.Fatalf("unexpected status: %q", stored.Status)
	}
	if stored.HTML != "<html></html>" {
		t.Fatalf("html not persisted: %q", stored.HTML)
	}
	if stored.ObjectKey == "" {
		t.Fatalf("object key not recorded")
	}
	if len(store.uploaded) != 1 || store.uploaded[0] != stored.ObjectKey {
		t.Fatalf("unexpected archive uploads: %v", store.uploaded)
	}
}

func TestCreatePortfolio_RejectsForeignResume(t *testing.T) {
	db := newTestDB(t)
	h := NewPortfolioHandler(db, &fakePortfolioStorage{}, slog.Default())

	resume := database.Resume{Title: "CV", Content: datatypes.JSON(`{}`), UserID: 2}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	c, w := newAuthedContext(t, 1, http.MethodPost, "/v1/portfolios",
		`{"title":"My Site","html":"<html></html>","resume_id":`+strconv.Itoa(int(resume.ID))+`}`)

	h.CreatePortfolio(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestListPortfolios_OmitsHTML(t *testing.T) {
	db := newTestDB(t)
	store := &fakePortfolioStorage{}
	h := NewPortfolioHandler(db, store, slog.Default())

	seedCompletedPortfolio(t, db, 1)

	c, w := newAuthedContext(t, 1, http.MethodGet, "/v1/portfolios", "")

	h.ListPortfolios(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	var items []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if _, ok := items[0]["html"]; ok {
		t.Fatalf("list response must not carry html body")
	}
	if items[0]["status"] != database.PortfolioStatusCompleted {
		t.Fatalf("unexpected status: %v", items[0]["status"])
	}
}

func TestGetPortfolio_IncludesHTML(t *testing.T) {
	db := newTestDB(t)
	h := NewPortfolioHandler(db, &fakePortfolioStorage{}, slog.Default())

	p := seedCompletedPortfolio(t, db, 1)

	c, w := newAuthedContext(t, 1, http.MethodGet, "/v1/portfolios/"+strconv.Itoa(int(p.ID)), "")
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}

	h.GetPortfolio(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	var got portfolioResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.HTML != "<html></html>" {
		t.Fatalf("html missing: %+v", got)
	}
}

func TestGetShareLink_RequiresCompletedArchive(t *testing.T) {
	db := newTestDB(t)
	store := &fakePortfolioStorage{}
	h := NewPortfolioHandler(db, store, slog.Default())

	pending := database.Portfolio{
		Title:    "still pending",
		Status:   database.PortfolioStatusPending,
		ResumeID: 1,
		UserID:   1,
	}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("seed portfolio: %v", err)
	}

	c, w := newAuthedContext(t, 1, http.MethodGet, "/v1/portfolios/"+strconv.Itoa(int(pending.ID))+"/share-link", "")
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(pending.ID))}}

	h.GetShareLink(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.presigned) != 0 {
		t.Fatalf("should not presign pending portfolio")
	}
}

func TestGetShareLink_ReturnsPresignedURL(t *testing.T) {
	db := newTestDB(t)
	store := &fakePortfolioStorage{}
	h := NewPortfolioHandler(db, store, slog.Default())

	p := seedCompletedPortfolio(t, db, 1)

	c, w := newAuthedContext(t, 1, http.MethodGet, "/v1/portfolios/"+strconv.Itoa(int(p.ID))+"/share-link", "")
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}

	h.GetShareLink(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.presigned) != 1 || store.presigned[0] != p.ObjectKey {
		t.Fatalf("unexpected presigned keys: %v", store.presigned)
	}
}

func TestDeletePortfolio_RemovesRowAndArchive(t *testing.T) {
	db := newTestDB(t)
	store := &fakePortfolioStorage{}
	h := NewPortfolioHandler(db, store, slog.Default())

	p := seedCompletedPortfolio(t, db, 1)

	c, w := newAuthedContext(t, 1, http.MethodDelete, "/v1/portfolios/"+strconv.Itoa(int(p.ID)), "")
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}

	h.DeletePortfolio(c)
	c.Writer.WriteHeaderNow()

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != p.ObjectKey {
		t.Fatalf("archive not deleted: %v", store.deleted)
	}

	var count int64
	if err := db.Model(&database.Portfolio{}).Where("id = ?", p.ID).Count(&count).Error; err != nil {
		t.Fatalf("count portfolios: %v", err)
	}
	if count != 0 {
		t.Fatalf("portfolio row not deleted")
	}
}

func TestGetPortfolio_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	h := NewPortfolioHandler(db, &fakePortfolioStorage{}, slog.Default())

	p := seedCompletedPortfolio(t, db, 1)

	c, w := newAuthedContext(t, 2, http.MethodGet, "/v1/portfolios/"+strconv.Itoa(int(p.ID)), "")
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}

	h.GetPortfolio(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other user's portfolio, got %d", w.Code)
	}
}
