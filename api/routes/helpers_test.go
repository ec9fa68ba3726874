package routes

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/petadopt/petadopt-backend/internal/auth"
	"github.com/petadopt/petadopt-backend/internal/pets"
	"github.com/petadopt/petadopt-backend/internal/users"
	"github.com/petadopt/petadopt-backend/pkg/auth/session"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	"github.com/petadopt/petadopt-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

type testApp struct {
	server   *httptest.Server
	db       *db.Client
	sessions *session.MemoryStore
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvTest},
		Session: config.SessionConfig{
			Secret:     "test-secret",
			Issuer:     "petadopt",
			TTLMinutes: 60,
			CookieName: "petadopt_session",
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		Auth: config.AuthConfig{AllowAdminSignup: true},
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := testConfig()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Pet{}))
	client := db.NewFromGorm(conn)

	store := session.NewMemoryStore()
	manager, err := session.NewManager(store, cfg.Session)
	require.NoError(t, err)

	userRepo := users.NewRepository(conn)
	authSvc, err := auth.NewService(auth.ServiceParams{UserRepo: userRepo, SessionManager: manager})
	require.NoError(t, err)
	registerSvc, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:               client,
		PasswordConfig:   cfg.Password,
		AllowAdminSignup: cfg.AdminSignupAllowed(),
	})
	require.NoError(t, err)
	petSvc, err := pets.NewService(pets.NewRepository(conn), client, nil)
	require.NoError(t, err)

	handler := NewRouter(Dependencies{
		Config:          cfg,
		DB:              client,
		Sessions:        manager,
		Users:           userRepo,
		AuthService:     authSvc,
		RegisterService: registerSvc,
		PetService:      petSvc,
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testApp{server: server, db: client, sessions: store}
}

// browser is an HTTP client with its own cookie jar that follows redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (a *testApp) newBrowser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:      t,
		base:   a.server.URL,
		client: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

type page struct {
	status int
	path   string
	body   string
}

func (b *browser) get(path string) page {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return readPage(b.t, resp)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return readPage(b.t, resp)
}

// postNoFollow posts with the browser's cookies but stops at the first
// response, so redirects can be inspected.
func (b *browser) postNoFollow(path string, form url.Values) (int, string) {
	b.t.Helper()
	client := *b.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, resp.Header.Get("Location")
}

func readPage(t *testing.T, resp *http.Response) page {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return page{status: resp.StatusCode, path: resp.Request.URL.RequestURI(), body: string(body)}
}

func (b *browser) register(username, email, password, role string) page {
	b.t.Helper()
	return b.post("/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
		"role":     {role},
	})
}

func (a *testApp) countPets(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, a.db.DB().Model(&models.Pet{}).Count(&count).Error)
	return count
}

func (a *testApp) countUsers(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, a.db.DB().Model(&models.User{}).Count(&count).Error)
	return count
}

func (a *testApp) petByName(t *testing.T, name string) models.Pet {
	t.Helper()
	var pet models.Pet
	require.NoError(t, a.db.DB().Where("name = ?", name).First(&pet).Error)
	return pet
}
