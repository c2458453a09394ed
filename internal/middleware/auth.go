package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
	"github.com/weiwangfds/cloudnotes/internal/logger"
	"github.com/weiwangfds/cloudnotes/internal/response"
	"github.com/weiwangfds/cloudnotes/internal/service/identity"
	"github.com/weiwangfds/cloudnotes/internal/service/user"
)

// gin上下文中保存当前用户信息的键
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextCognitoID = "cognito_id"
)

// AuthMiddleware 认证中间件
// 校验Bearer访问令牌，令牌由托管身份服务验证，
// 验证通过后按邮箱确保本地用户记录存在，并注入gin上下文
type AuthMiddleware struct {
	identity identity.Provider
	users    user.Service
}

// NewAuthMiddleware 创建认证中间件实例
func NewAuthMiddleware(provider identity.Provider, users user.Service) *AuthMiddleware {
	return &AuthMiddleware{
		identity: provider,
		users:    users,
	}
}

// RequireAuth 要求请求携带有效的Bearer令牌
// 缺少令牌返回401，令牌无效或过期返回403
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, apperrors.GetErrorMessage(apperrors.ErrTokenMissing))
			return
		}

		profile, err := m.identity.GetUser(c.Request.Context(), token)
		if err != nil {
			logger.Warnf("[认证中间件] 令牌校验失败: %v", err)
			response.Forbidden(c, apperrors.GetErrorMessage(apperrors.ErrTokenInvalid))
			return
		}

		localUser, err := m.users.EnsureUser(profile.ExternalID, profile.Email,
			profile.FirstName, profile.LastName)
		if err != nil {
			logger.Errorf("[认证中间件] 用户建档失败: %s, 错误: %v", profile.Email, err)
			response.InternalServerErrorWithError(c,
				apperrors.GetErrorMessage(apperrors.ErrInternalServer), err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, localUser.ID)
		c.Set(ContextUserEmail, localUser.Email)
		c.Set(ContextCognitoID, profile.ExternalID)
		c.Next()
	}
}

// extractBearerToken 从Authorization头中提取Bearer令牌
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUserID 读取上下文中的当前用户ID
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
