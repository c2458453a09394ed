// Package middleware 认证中间件的单元测试
// 覆盖令牌缺失、令牌无效和首次请求自动建档
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/cloudnotes/internal/database"
	"github.com/weiwangfds/cloudnotes/internal/service/identity"
	userservice "github.com/weiwangfds/cloudnotes/internal/service/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeIdentity 假身份提供商，按令牌表返回档案
type fakeIdentity struct {
	profiles map[string]*identity.Profile
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password, firstName, lastName string) (string, error) {
	return "sub-" + email, nil
}

func (f *fakeIdentity) ConfirmSignUp(ctx context.Context, email, code string) error {
	return nil
}

func (f *fakeIdentity) Login(ctx context.Context, email, password string) (*identity.Tokens, error) {
	return &identity.Tokens{AccessToken: "token-" + email}, nil
}

func (f *fakeIdentity) GetUser(ctx context.Context, accessToken string) (*identity.Profile, error) {
	profile, ok := f.profiles[accessToken]
	if !ok {
		return nil, errors.New("invalid access token")
	}
	return profile, nil
}

func (f *fakeIdentity) ForgotPassword(ctx context.Context, email string) error {
	return nil
}

func (f *fakeIdentity) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return nil
}

// setupAuthRouter 构建带认证中间件的测试路由
func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	provider := &fakeIdentity{
		profiles: map[string]*identity.Profile{
			"valid-token": {
				ExternalID: "sub-1",
				Email:      "alice@x.com",
				FirstName:  "Carol",
				LastName:   "Jones",
			},
		},
	}
	authMiddleware := NewAuthMiddleware(provider, userservice.NewService(db))

	engine := gin.New()
	engine.GET("/protected", authMiddleware.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": CurrentUserID(c),
			"email":  c.GetString(ContextUserEmail),
		})
	})
	return engine, db
}

// TestRequireAuthMissingToken 测试缺少令牌返回401
func TestRequireAuthMissingToken(t *testing.T) {
	engine, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestRequireAuthMalformedHeader 测试非Bearer格式的头返回401
func TestRequireAuthMalformedHeader(t *testing.T) {
	engine, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestRequireAuthInvalidToken 测试无效令牌返回403
func TestRequireAuthInvalidToken(t *testing.T) {
	engine, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestRequireAuthProvisionsUser 测试首次请求自动建档并注入上下文
func TestRequireAuthProvisionsUser(t *testing.T) {
	engine, db := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var user database.User
	require.NoError(t, db.Where("email = ?", "alice@x.com").First(&user).Error)
	require.NotNil(t, user.CognitoID)
	assert.Equal(t, "sub-1", *user.CognitoID)
	// 仅凭令牌建档的用户同样带上身份服务中的姓名属性
	assert.Equal(t, "Carol", user.FirstName)
	assert.Equal(t, "Jones", user.LastName)

	// 再次请求不重复建档
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&database.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestExtractBearerToken 测试Bearer令牌解析
func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc", extractBearerToken("Bearer abc"))
	assert.Equal(t, "abc", extractBearerToken("bearer abc"))
	assert.Equal(t, "", extractBearerToken(""))
	assert.Equal(t, "", extractBearerToken("abc"))
	assert.Equal(t, "", extractBearerToken("Basic abc"))
}
