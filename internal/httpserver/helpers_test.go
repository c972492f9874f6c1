package httpserver

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portaria/internal/auth"
	"portaria/internal/models"
)

type env struct {
	db      *gorm.DB
	store   *auth.SessionStore
	limiter *auth.LoginLimiter
	router  http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.LogRecord{}))

	e := &env{
		db:      db,
		store:   auth.NewSessionStore(),
		limiter: auth.NewLoginLimiter(rate.Every(time.Millisecond), 1000),
	}
	e.router = NewRouter(db, e.store, e.limiter, zap.NewNop().Sugar())
	return e
}

type accountSpec struct {
	Username string
	Password string
	IP       string
	Plain    bool
	Admin    bool
	Insert   bool
	Alter    bool
	Delete   bool
	Query    bool
}

func (e *env) createAccount(t *testing.T, spec accountSpec) models.Account {
	t.Helper()
	if spec.IP == "" {
		spec.IP = models.AnyAddress
	}
	stored := spec.Password
	if !spec.Plain {
		var err error
		stored, err = auth.HashPassword(spec.Password)
		require.NoError(t, err)
	}
	acct := models.Account{
		Username:  models.NormalizeUsername(spec.Username),
		Password:  stored,
		BoundIP:   spec.IP,
		IsAdmin:   spec.Admin,
		CanInsert: models.YesNo(spec.Insert),
		CanAlter:  models.YesNo(spec.Alter),
		CanDelete: models.YesNo(spec.Delete),
		CanQuery:  models.YesNo(spec.Query),
	}
	require.NoError(t, e.db.Create(&acct).Error)
	return acct
}

func (e *env) do(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return e.do(t, http.MethodGet, path, nil, cookie)
}

func (e *env) postForm(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	return e.do(t, http.MethodPost, path, form, cookie)
}

func (e *env) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := e.postForm(t, "/login", url.Values{"username": {username}, "senha": {password}}, nil)
	require.Equal(t, http.StatusOK, rec.Code, "login body: %s", rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func (e *env) insertRecord(t *testing.T, rec models.LogRecord) models.LogRecord {
	t.Helper()
	require.NoError(t, e.db.Create(&rec).Error)
	return rec
}
