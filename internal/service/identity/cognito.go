package identity

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/weiwangfds/cloudnotes/config"
	"github.com/weiwangfds/cloudnotes/internal/awsx"
	"github.com/weiwangfds/cloudnotes/internal/logger"
)

// CognitoProvider AWS Cognito身份提供商实现
// 实现了Provider接口，所有操作直接透传给Cognito用户池
type CognitoProvider struct {
	client   *cognito.Client
	clientID string
}

// NewCognitoProvider 创建Cognito身份提供商实例
// 参数:
//   - ctx: 上下文
//   - awsCfg: AWS区域和凭证配置
//   - cfg: Cognito配置，包含用户池应用客户端ID
// 返回:
//   - *CognitoProvider: 初始化完成的提供商实例
//   - error: 初始化过程中的错误信息
func NewCognitoProvider(ctx context.Context, awsCfg config.AWSConfig, cfg config.CognitoConfig) (*CognitoProvider, error) {
	sdkCfg, err := awsx.LoadConfig(ctx, awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config for cognito: %w", err)
	}

	logger.Infof("[Cognito] 初始化客户端, 区域: %s", awsCfg.Region)
	return &CognitoProvider{
		client:   cognito.NewFromConfig(sdkCfg),
		clientID: cfg.ClientID,
	}, nil
}

// SignUp 注册新账号
func (p *CognitoProvider) SignUp(ctx context.Context, email, password, firstName, lastName string) (string, error) {
	out, err := p.client.SignUp(ctx, &cognito.SignUpInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("given_name"), Value: aws.String(firstName)},
			{Name: aws.String("family_name"), Value: aws.String(lastName)},
		},
	})
	if err != nil {
		logger.Errorf("[Cognito] 注册失败, 邮箱: %s, 错误: %v", email, err)
		return "", fmt.Errorf("cognito sign up: %w", err)
	}

	logger.Infof("[Cognito] 注册成功, 邮箱: %s, 用户标识: %s", email, aws.ToString(out.UserSub))
	return aws.ToString(out.UserSub), nil
}

// ConfirmSignUp 使用确认码激活账号
func (p *CognitoProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	_, err := p.client.ConfirmSignUp(ctx, &cognito.ConfirmSignUpInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		logger.Errorf("[Cognito] 账号确认失败, 邮箱: %s, 错误: %v", email, err)
		return fmt.Errorf("cognito confirm sign up: %w", err)
	}
	return nil
}

// Login 使用USER_PASSWORD_AUTH流程登录
func (p *CognitoProvider) Login(ctx context.Context, email, password string) (*Tokens, error) {
	out, err := p.client.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		logger.Warnf("[Cognito] 登录失败, 邮箱: %s, 错误: %v", email, err)
		return nil, fmt.Errorf("cognito initiate auth: %w", err)
	}
	if out.AuthenticationResult == nil {
		// 触发MFA等挑战流程时没有直接返回令牌，登录按失败处理
		return nil, fmt.Errorf("cognito initiate auth: challenge %s not supported", out.ChallengeName)
	}

	result := out.AuthenticationResult
	return &Tokens{
		IDToken:      aws.ToString(result.IdToken),
		AccessToken:  aws.ToString(result.AccessToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

// GetUser 根据访问令牌解析账号档案
func (p *CognitoProvider) GetUser(ctx context.Context, accessToken string) (*Profile, error) {
	out, err := p.client.GetUser(ctx, &cognito.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return nil, fmt.Errorf("cognito get user: %w", err)
	}

	profile := &Profile{ExternalID: aws.ToString(out.Username)}
	for _, attr := range out.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			profile.ExternalID = aws.ToString(attr.Value)
		case "email":
			profile.Email = aws.ToString(attr.Value)
		case "given_name":
			profile.FirstName = aws.ToString(attr.Value)
		case "family_name":
			profile.LastName = aws.ToString(attr.Value)
		}
	}

	return profile, nil
}

// ForgotPassword 发起密码重置
func (p *CognitoProvider) ForgotPassword(ctx context.Context, email string) error {
	_, err := p.client.ForgotPassword(ctx, &cognito.ForgotPasswordInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(email),
	})
	if err != nil {
		logger.Errorf("[Cognito] 发起密码重置失败, 邮箱: %s, 错误: %v", email, err)
		return fmt.Errorf("cognito forgot password: %w", err)
	}
	return nil
}

// ResetPassword 使用确认码设置新密码
func (p *CognitoProvider) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	_, err := p.client.ConfirmForgotPassword(ctx, &cognito.ConfirmForgotPasswordInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
	})
	if err != nil {
		logger.Errorf("[Cognito] 重置密码失败, 邮箱: %s, 错误: %v", email, err)
		return fmt.Errorf("cognito confirm forgot password: %w", err)
	}
	return nil
}
