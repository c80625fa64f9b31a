package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/JerryLinyx/pilotts/config"
	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/mailer"
	"github.com/JerryLinyx/pilotts/models"
	"github.com/JerryLinyx/pilotts/services"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func setupApp(t *testing.T) (*gin.Engine, *recordingMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	global.DB = db
	global.RedisDB = rdb
	global.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	global.Articles = services.NewArticleService(db)
	global.Settings = services.NewSettingService(db, models.Setting{BlogName: "Test Blog", ContactEmail: "owner@example.com"})
	if _, err := global.Settings.Load(context.Background()); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	global.Auth = services.NewAuthService(db, services.NewSessionStore(rdb, time.Hour), services.AuthOptions{JWTSecret: "test-secret"})
	mail := &recordingMailer{}
	global.Mailer = mail

	return InitRouter(nil), mail
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func register(t *testing.T, r http.Handler) string {
	t.Helper()
	w, body := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{"email": "admin@example.com", "password": "password123"})
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	return body["token"].(string)
}

func articleID(t *testing.T, body map[string]any) uint {
	t.Helper()
	article, ok := body["article"].(map[string]any)
	if !ok {
		t.Fatalf("response has no article: %v", body)
	}
	return uint(article["id"].(float64))
}

func path(format string, id uint) string {
	return "/api/admin/articles/" + jsonNumber(id) + format
}

func jsonNumber(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}

func TestHealth(t *testing.T) {
	r, _ := setupApp(t)
	w, body := do(t, r, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", w.Code, body)
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	r, _ := setupApp(t)

	if w, _ := do(t, r, http.MethodGet, "/api/admin/articles", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodGet, "/api/admin/articles", "Bearer nope", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", w.Code)
	}

	token := register(t, r)
	if w, _ := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{"email": "x@example.com", "password": "pw"}); w.Code != http.StatusForbidden {
		t.Fatalf("second registration = %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@example.com", "password": "bad"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", w.Code)
	}

	if w, _ := do(t, r, http.MethodDelete, "/api/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout = %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodGet, "/api/admin/articles", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("token valid after logout: %d", w.Code)
	}
}

func TestArticleLifecycle(t *testing.T) {
	r, _ := setupApp(t)
	token := register(t, r)

	w, body := do(t, r, http.MethodPost, "/api/admin/articles/new", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("new = %d %s", w.Code, w.Body.String())
	}
	id := articleID(t, body)

	w, body = do(t, r, http.MethodPut, path("", id), token, gin.H{"article": gin.H{"title": "", "status": "nope"}})
	if w.Code != http.StatusUnprocessableEntity || body["status"] != "error" {
		t.Fatalf("invalid update = %d %v", w.Code, body)
	}
	if errs := body["errors"].([]any); len(errs) != 2 {
		t.Fatalf("errors = %v", errs)
	}

	w, body = do(t, r, http.MethodPut, path("", id), token, gin.H{"title": "Hello", "html_body": "<p>One. Two. Three.</p>"})
	if w.Code != http.StatusOK || body["new_status"] != "draft" {
		t.Fatalf("update = %d %v", w.Code, body)
	}

	w, body = do(t, r, http.MethodPatch, path("/autosave", id), token, gin.H{"title": "Hello again"})
	if w.Code != http.StatusOK || body["message"] != "Auto-saved" || body["last_saved"] == "" {
		t.Fatalf("autosave = %d %v", w.Code, body)
	}

	if w, _ := do(t, r, http.MethodGet, "/api/articles/"+jsonNumber(id), "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("draft visible publicly: %d", w.Code)
	}

	w, body = do(t, r, http.MethodPatch, path("/toggle_status", id), token, nil)
	if w.Code != http.StatusOK || body["message"] != "Article published successfully." {
		t.Fatalf("toggle = %d %v", w.Code, body)
	}

	w, body = do(t, r, http.MethodGet, "/api/articles/"+jsonNumber(id), "", nil)
	if w.Code != http.StatusOK || body["title"] != "Hello again" || body["excerpt"] != "One. Two." || body["reading_time"] != "1 min read" {
		t.Fatalf("public show = %d %v", w.Code, body)
	}

	w, body = do(t, r, http.MethodPatch, path("/autosave", id), token, gin.H{"title": "Dropped"})
	if w.Code != http.StatusOK || body["status"] != "success" {
		t.Fatalf("autosave on published = %d %v", w.Code, body)
	}
	_, body = do(t, r, http.MethodGet, path("", id), token, nil)
	if body["title"] != "Hello again" {
		t.Fatalf("autosave on published persisted: %v", body)
	}

	w, body = do(t, r, http.MethodGet, "/api/articles", "", nil)
	years := body["years"].([]any)
	if w.Code != http.StatusOK || len(years) != 1 {
		t.Fatalf("public index = %d %v", w.Code, body)
	}

	w, body = do(t, r, http.MethodGet, "/api/articles/search?q=HELLO", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public search = %d", w.Code)
	}

	w, body = do(t, r, http.MethodPatch, path("/archive", id), token, nil)
	if w.Code != http.StatusOK || body["message"] != "Article archived successfully." {
		t.Fatalf("archive = %d %v", w.Code, body)
	}
	if article := body["article"].(map[string]any); article["archived"] != true {
		t.Fatalf("archived flag = %v", article)
	}

	w, body = do(t, r, http.MethodGet, "/api/admin/articles?filter=archived", token, nil)
	if w.Code != http.StatusOK || len(body["articles"].([]any)) != 1 || body["filter"] != "archived" {
		t.Fatalf("admin list = %d %v", w.Code, body)
	}
	stats := body["stats"].(map[string]any)
	if stats["archived"] != float64(1) || stats["published"] != float64(0) {
		t.Fatalf("stats = %v", stats)
	}

	if w, _ := do(t, r, http.MethodDelete, path("", id), token, nil); w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodGet, path("", id), token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("deleted article still found: %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodGet, "/api/admin/articles/abc", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id = %d", w.Code)
	}
}

func TestPublicSearchShape(t *testing.T) {
	r, _ := setupApp(t)
	token := register(t, r)

	do(t, r, http.MethodPost, "/api/admin/articles", token, gin.H{"title": "Go Generics", "html_body": "<p>Type parameters.</p>", "status": "published"})
	do(t, r, http.MethodPost, "/api/admin/articles", token, gin.H{"title": "Go Drafts", "html_body": "<p>Hidden.</p>"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles/search?q=go", nil))
	var results []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	if len(results) != 1 || results[0]["title"] != "Go Generics" || results[0]["excerpt"] != "Type parameters." {
		t.Fatalf("results = %v", results)
	}
	if _, ok := results[0]["status"]; ok {
		t.Fatal("public search should not expose status")
	}
}

func TestSettingsAndContact(t *testing.T) {
	r, mail := setupApp(t)
	token := register(t, r)

	w, body := do(t, r, http.MethodPut, "/api/admin/settings", token, gin.H{"setting": gin.H{"blog_name": "Renamed", "bio": "Hi"}})
	if w.Code != http.StatusOK {
		t.Fatalf("update settings = %d %v", w.Code, body)
	}
	w, body = do(t, r, http.MethodPut, "/api/admin/settings", token, gin.H{"contact_email": "broken"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid settings = %d %v", w.Code, body)
	}

	_, body = do(t, r, http.MethodGet, "/api/about", "", nil)
	if body["blog_name"] != "Renamed" || body["bio"] != "Hi" {
		t.Fatalf("about = %v", body)
	}
	if _, leaked := body["contact_email"]; leaked {
		t.Fatal("about exposes contact email")
	}

	w, body = do(t, r, http.MethodPost, "/api/contact", "", gin.H{"name": "Ann", "email": "", "message": "hi"})
	if w.Code != http.StatusUnprocessableEntity || body["errors"].([]any)[0] != "Please fill in all fields." {
		t.Fatalf("incomplete contact = %d %v", w.Code, body)
	}

	w, _ = do(t, r, http.MethodPost, "/api/contact", "", gin.H{"name": "Ann", "email": "ann@example.com", "message": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("contact = %d", w.Code)
	}

	w, _ = do(t, r, http.MethodPost, "/api/admin/settings/test_email", token, gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("test email = %d %s", w.Code, w.Body.String())
	}

	if len(mail.sent) != 2 {
		t.Fatalf("sent = %+v", mail.sent)
	}
	if mail.sent[0].To != "owner@example.com" || mail.sent[0].ReplyTo != "ann@example.com" {
		t.Fatalf("contact mail = %+v", mail.sent[0])
	}
	if mail.sent[1].Subject != "Test Email from Renamed" {
		t.Fatalf("test mail = %+v", mail.sent[1])
	}
}

func TestResolveOrigins(t *testing.T) {
	t.Setenv("FRONTEND_ORIGINS", "")
	if got := resolveOrigins([]string{"https://blog.example.com"}); len(got) != 1 || got[0] != "https://blog.example.com" {
		t.Fatalf("configured origins = %v", got)
	}
	if got := resolveOrigins(nil); len(got) != 2 {
		t.Fatalf("default origins = %v", got)
	}

	t.Setenv("FRONTEND_ORIGINS", " https://a.example.com , ,https://b.example.com")
	if got := resolveOrigins(nil); len(got) != 2 || got[0] != "https://a.example.com" {
		t.Fatalf("env origins = %v", got)
	}

	t.Setenv("FRONTEND_ORIGINS", " , ")
	if got := resolveOrigins(nil); len(got) != 1 || got[0] != "*" {
		t.Fatalf("empty env origins = %v", got)
	}
}
