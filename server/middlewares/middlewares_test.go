package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Luismorlan/newsdesk/accounts"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, users map[string]*model.User, handlers ...gin.HandlerFunc) (*gin.Engine, *accounts.TokenIssuer) {
	tokens, err := accounts.NewTokenIssuer("secret")
	require.NoError(t, err)
	loader := func(id string) (*model.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, errors.New("no such user")
	}
	router := gin.New()
	chain := append([]gin.HandlerFunc{JWT(tokens, loader)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	router.GET("/private", chain...)
	return router, tokens
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	kent := &model.User{Id: "kent-id", Username: "kent", Role: model.RoleJournalist}
	router, tokens := newRouter(t, map[string]*model.User{kent.Id: kent})
	token, err := tokens.GenerateJWT(kent)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "kent", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	assert.Equal(t, http.StatusOK, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)

	ghost, err := tokens.GenerateJWT(&model.User{Id: "ghost", Role: model.RoleReader})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+ghost)
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)
}

func TestRequireRole(t *testing.T) {
	kent := &model.User{Id: "kent-id", Username: "kent", Role: model.RoleJournalist}
	boss := &model.User{Id: "boss-id", Username: "boss", Role: model.RoleEditor, IsManager: true}
	users := map[string]*model.User{kent.Id: kent, boss.Id: boss}

	for _, tc := range []struct {
		role   model.Role
		user   *model.User
		status int
	}{
		{model.RoleJournalist, kent, http.StatusOK},
		{model.RoleEditor, kent, http.StatusForbidden},
		{model.RoleManager, kent, http.StatusForbidden},
		{model.RoleManager, boss, http.StatusOK},
		{model.RoleEditor, boss, http.StatusOK},
		{model.RoleReader, boss, http.StatusForbidden},
	} {
		router, tokens := newRouter(t, users, RequireRole(tc.role))
		token, err := tokens.GenerateJWT(tc.user)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, tc.status, serve(router, req).Code, "%s as %s", tc.user.Username, tc.role)
	}
}

func TestRequireRoleWithoutUser(t *testing.T) {
	router := gin.New()
	router.GET("/open", RequireRole(model.RoleReader), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(router, httptest.NewRequest(http.MethodGet, "/open", nil)).Code)
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("1.1.1.1"))
	assert.True(t, limiter.Allow("1.1.1.1"))
	assert.False(t, limiter.Allow("1.1.1.1"))
	assert.True(t, limiter.Allow("2.2.2.2"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("1.1.1.1"))

	now = now.Add(visitorIdleTimeout + time.Minute)
	limiter.Allow("3.3.3.3")
	assert.Len(t, limiter.visitors, 1)

	router := gin.New()
	router.POST("/login", RateLimit(NewIPRateLimiter(rate.Every(time.Hour), 1)), func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusOK, serve(router, req).Code)
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, req).Code)
}
