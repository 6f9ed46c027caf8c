package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ikonbethel/alx-files-manager/internal/middleware"
	"github.com/ikonbethel/alx-files-manager/internal/models"
	"github.com/ikonbethel/alx-files-manager/internal/repository"
	"github.com/ikonbethel/alx-files-manager/internal/services"
	"github.com/ikonbethel/alx-files-manager/internal/session"
	"github.com/ikonbethel/alx-files-manager/internal/storage"
	"github.com/ikonbethel/alx-files-manager/pkg/logger"
	"github.com/ikonbethel/alx-files-manager/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testEnv struct {
	app      *fiber.App
	sessions *session.Store
	users    *memUserStore
	files    *memFileStore
	disk     *storage.Disk
	queue    *recordingQueue
	redis    *miniredis.Miniredis
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	sessions := session.NewStore(rdb)
	users := newMemUserStore()
	files := newMemFileStore()
	disk := storage.NewDisk(t.TempDir())
	queue := &recordingQueue{}

	uploadService := services.NewUploadService(sessions, files, disk, queue)
	retrievalService := services.NewRetrievalService(sessions, files, disk)

	appHandler := NewAppHandler(sessions, alivePinger{}, users, files)
	usersHandler := NewUsersHandler(users, queue)
	authHandler := NewAuthHandler(sessions, users, 24*time.Hour)
	filesHandler := NewFilesHandler(files, uploadService, retrievalService)

	authMiddleware := middleware.NewAuthMiddleware(sessions, users)

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())

	app.Get("/status", appHandler.GetStatus)
	app.Get("/stats", appHandler.GetStats)

	app.Post("/users", usersHandler.PostNew)
	app.Get("/users/me", authMiddleware.RequireAuth, usersHandler.GetMe)

	app.Get("/connect", authHandler.GetConnect)
	app.Get("/disconnect", authMiddleware.RequireAuth, authHandler.GetDisconnect)

	app.Post("/files", filesHandler.PostUpload)
	app.Get("/files/:id/data", filesHandler.GetData)
	app.Get("/files/:id", authMiddleware.RequireAuth, filesHandler.GetShow)
	app.Get("/files", authMiddleware.RequireAuth, filesHandler.GetIndex)
	app.Put("/files/:id/publish", authMiddleware.RequireAuth, filesHandler.PutPublish)
	app.Put("/files/:id/unpublish", authMiddleware.RequireAuth, filesHandler.PutUnpublish)

	return &testEnv{
		app:      app,
		sessions: sessions,
		users:    users,
		files:    files,
		disk:     disk,
		queue:    queue,
		redis:    mr,
	}
}

type alivePinger struct{}

func (alivePinger) IsAlive(context.Context) bool { return true }

type memUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[primitive.ObjectID]*models.User{}}
}

func (s *memUserStore) Create(_ context.Context, email, passwordHash string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return nil, repository.ErrAlreadyExists
		}
	}
	user := &models.User{ID: primitive.NewObjectID(), Email: email, PasswordHash: passwordHash}
	s.users[user.ID] = user
	return user, nil
}

func (s *memUserStore) FindByCredentials(_ context.Context, email, password string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email && utils.CheckPassword(user.PasswordHash, password) {
			return user, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users[id], nil
}

func (s *memUserStore) Count(context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

type memFileStore struct {
	entries map[primitive.ObjectID]*models.File
}

func newMemFileStore() *memFileStore {
	return &memFileStore{entries: map[primitive.ObjectID]*models.File{}}
}

func (s *memFileStore) Insert(ctx context.Context, entry *models.File) (primitive.ObjectID, error) {
	if !entry.ParentID.IsZero() {
		if err := s.EnsureFolder(ctx, entry.ParentID); err != nil {
			return primitive.NilObjectID, err
		}
	}
	stored := *entry
	stored.ID = primitive.NewObjectID()
	s.entries[stored.ID] = &stored
	return stored.ID, nil
}

func (s *memFileStore) EnsureFolder(_ context.Context, id primitive.ObjectID) error {
	parent, ok := s.entries[id]
	if !ok {
		return repository.ErrParentNotFound
	}
	if !parent.IsFolder() {
		return repository.ErrParentNotAFolder
	}
	return nil
}

func (s *memFileStore) Get(_ context.Context, id primitive.ObjectID) (*models.File, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (s *memFileStore) GetOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*models.File, error) {
	entry, err := s.Get(ctx, id)
	if err != nil || entry == nil || entry.UserID != ownerID {
		return nil, err
	}
	return entry, nil
}

func (s *memFileStore) List(_ context.Context, ownerID, parentID primitive.ObjectID, page int64) ([]models.File, error) {
	if page < 0 {
		page = 0
	}

	matched := make([]models.File, 0)
	for _, entry := range s.entries {
		if entry.UserID == ownerID && entry.ParentID == parentID {
			matched = append(matched, *entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	start := page * repository.PageSize
	if start >= int64(len(matched)) {
		return []models.File{}, nil
	}
	end := start + repository.PageSize
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[start:end], nil
}

func (s *memFileStore) SetVisibility(_ context.Context, id, ownerID primitive.ObjectID, isPublic bool) (*models.File, error) {
	entry, ok := s.entries[id]
	if !ok || entry.UserID != ownerID {
		return nil, nil
	}
	entry.IsPublic = isPublic
	copied := *entry
	return &copied, nil
}

func (s *memFileStore) Count(context.Context) (int64, error) {
	return int64(len(s.entries)), nil
}

type recordingQueue struct {
	thumbnails []struct{ userID, fileID string }
	welcomes   []string
}

func (q *recordingQueue) EnqueueThumbnail(_ context.Context, userID, fileID string) error {
	q.thumbnails = append(q.thumbnails, struct{ userID, fileID string }{userID, fileID})
	return nil
}

func (q *recordingQueue) EnqueueWelcome(_ context.Context, userID string) error {
	q.welcomes = append(q.welcomes, userID)
	return nil
}

// registerAndConnect provisions a user straight through the stores and issues
// a session token, skipping the HTTP round trips most tests do not care about.
func registerAndConnect(t *testing.T, env *testEnv, email, password string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user, err := env.users.Create(context.Background(), email, hash)
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}

	token, err := env.sessions.Issue(context.Background(), user.ID.Hex(), 24*time.Hour)
	if err != nil {
		t.Fatalf("issuing session token: %v", err)
	}
	return user, token
}

func basicAuthHeader(email, password string) map[string]string {
	credentials := base64.StdEncoding.EncodeToString([]byte(email + ":" + password))
	return map[string]string{"Authorization": "Basic " + credentials}
}

func tokenHeaders(token string) map[string]string {
	return map[string]string{middleware.TokenHeader: token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func decodeJSONList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload []map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON list response: %v body=%q", err, string(raw))
	}

	return payload
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}
	return raw
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertErrorMessage(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}
