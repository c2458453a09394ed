// Package identity 提供身份协作服务的接口和实现
// 账号注册、确认、登录和密码生命周期完全委托给托管身份服务，
// 本地不保存任何凭证，每次请求都重新校验令牌
package identity

import "context"

// Tokens 登录成功后返回的令牌集合
type Tokens struct {
	IDToken      string `json:"idToken"`      // 身份令牌
	AccessToken  string `json:"accessToken"`  // 访问令牌，后续请求的Bearer凭证
	RefreshToken string `json:"refreshToken"` // 刷新令牌
	ExpiresIn    int32  `json:"expiresIn"`    // 访问令牌有效期（秒）
}

// Profile 身份服务中的账号档案
type Profile struct {
	ExternalID string // 身份服务内的用户标识（Cognito sub）
	Email      string // 邮箱
	FirstName  string // 名（given_name属性）
	LastName   string // 姓（family_name属性）
}

// Provider 身份提供商接口
type Provider interface {
	// SignUp 注册新账号，返回身份服务分配的用户标识
	SignUp(ctx context.Context, email, password, firstName, lastName string) (string, error)

	// ConfirmSignUp 使用确认码激活账号
	ConfirmSignUp(ctx context.Context, email, code string) error

	// Login 使用邮箱和密码登录
	Login(ctx context.Context, email, password string) (*Tokens, error)

	// GetUser 根据访问令牌解析账号档案，令牌无效或过期时返回错误
	GetUser(ctx context.Context, accessToken string) (*Profile, error)

	// ForgotPassword 发起密码重置，确认码发送到注册邮箱
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword 使用确认码设置新密码
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
