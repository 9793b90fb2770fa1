package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/javajoker/fertiscan-backend/internal/models"
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	utils.SetJWTSecret("middleware-test")
	r := gin.New()
	r.Use(I18nMiddleware("en"), AuthRequired())
	r.GET("/me", func(c *gin.Context) {
		id, _ := utils.GetUserIDFromContext(c)
		c.String(http.StatusOK, id)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	id := uuid.New()
	token, err := utils.GenerateJWT(id, "inspector@example.com", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())
}

func TestI18nMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(I18nMiddleware("en"))
	r.GET("/lang", func(c *gin.Context) { c.String(http.StatusOK, utils.GetLangFromContext(c)) })

	for header, want := range map[string]string{
		"":                        "en",
		"fr-CA,fr;q=0.9,en;q=0.8": "fr",
		"en-US":                   "en",
		"de-DE":                   "en",
	} {
		req := httptest.NewRequest(http.MethodGet, "/lang", nil)
		if header != "" {
			req.Header.Set("Accept-Language", header)
		}
		assert.Equal(t, want, serve(r, req).Body.String(), header)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 1)
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	rl.evict(0)
	assert.Empty(t, rl.visitors)
}

type fakeRegistry struct {
	ids    []uuid.UUID
	emails []string
	err    error
}

func (f *fakeRegistry) EnsureUser(_ context.Context, id uuid.UUID, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.ids = append(f.ids, id)
	f.emails = append(f.emails, email)
	return &models.User{BaseModel: models.BaseModel{ID: id}, Email: email}, nil
}

func TestRegisterInspector(t *testing.T) {
	registry := &fakeRegistry{}
	id := uuid.New()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", id.String())
		c.Set("email", "inspector@example.com")
	}, RegisterInspector(registry))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, []uuid.UUID{id}, registry.ids)
	assert.Equal(t, []string{"inspector@example.com"}, registry.emails)

	registry.err = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestExtractResource(t *testing.T) {
	id := uuid.New().String()
	assert.Equal(t, "inspections", extractResourceType("/v1/inspections/"+id))
	assert.Equal(t, id, extractResourceID("/v1/inspections/"+id))
	assert.Equal(t, "health", extractResourceType("/health"))
	assert.Equal(t, "unknown", extractResourceType("/"))
	assert.Empty(t, extractResourceID("/v1/inspections"))
}
