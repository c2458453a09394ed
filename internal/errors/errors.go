package errors

import (
	"fmt"

	"github.com/weiwangfds/cloudnotes/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误
	ErrUnauthorized   ErrorCode = 1002 // 未授权
	ErrForbidden      ErrorCode = 1003 // 禁止访问
	ErrNotFound       ErrorCode = 1004 // 资源未找到

	// 认证相关错误码 (2000-2999)
	ErrTokenMissing ErrorCode = 2000 // 缺少身份令牌
	ErrTokenInvalid ErrorCode = 2001 // 令牌无效或已过期

	// 笔记相关错误码 (3000-3999)
	ErrNoteNotFound     ErrorCode = 3000 // 笔记未找到（含不属于调用者的笔记）
	ErrNoteTitleEmpty   ErrorCode = 3001 // 笔记标题为空
	ErrNoteContentEmpty ErrorCode = 3002 // 笔记内容为空

	// 文件相关错误码 (4000-4999)
	ErrFileMissing      ErrorCode = 4000 // 未上传文件
	ErrFileForbidden    ErrorCode = 4001 // 文件键不在调用者命名空间内
	ErrFileUploadFailed ErrorCode = 4002 // 文件上传失败
	ErrFileListFailed   ErrorCode = 4003 // 文件列表获取失败
	ErrFileDeleteFailed ErrorCode = 4004 // 文件删除失败

	// 协作服务相关错误码 (5000-5999)
	ErrIdentitySignupFailed         ErrorCode = 5000 // 身份服务注册失败
	ErrIdentityConfirmFailed        ErrorCode = 5001 // 身份服务账号确认失败
	ErrIdentityLoginFailed          ErrorCode = 5002 // 身份服务登录失败
	ErrIdentityResetFailed          ErrorCode = 5003 // 身份服务重置密码失败
	ErrStorageUnavailable           ErrorCode = 5100 // 对象存储服务不可用
	ErrStorageProviderNotSupported  ErrorCode = 5101 // 存储提供商不支持
	ErrTelemetryUnavailable         ErrorCode = 5200 // 遥测服务不可用

	// 数据库相关错误码 (6000-6999)
	ErrDatabaseQuery       ErrorCode = 6000 // 数据库查询错误
	ErrDatabaseInsert      ErrorCode = 6001 // 数据库插入错误
	ErrRecordNotFound      ErrorCode = 6002 // 记录未找到
	ErrRecordAlreadyExists ErrorCode = 6003 // 记录已存在
	ErrUserNotFound        ErrorCode = 6004 // 用户未找到
	ErrDatabaseUpdate      ErrorCode = 6005 // 数据库更新错误
	ErrDatabaseDelete      ErrorCode = 6006 // 数据库删除错误
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误，支持errors.Is/As链式判断
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// WrapCode 按错误码包装原始错误，消息取自i18n语言包
func WrapCode(code ErrorCode, err error) *AppError {
	return Wrap(code, GetErrorMessage(code), err)
}

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsCode 判断错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == code
}

// 预定义的常用错误
var (
	// 通用错误
	ErrInternalServerError = New(ErrInternalServer, GetErrorMessage(ErrInternalServer))
	ErrInvalidParameters   = New(ErrInvalidParams, GetErrorMessage(ErrInvalidParams))
	ErrResourceNotFound    = New(ErrNotFound, GetErrorMessage(ErrNotFound))

	// 认证相关错误
	ErrTokenMissingError = New(ErrTokenMissing, GetErrorMessage(ErrTokenMissing))
	ErrTokenInvalidError = New(ErrTokenInvalid, GetErrorMessage(ErrTokenInvalid))

	// 笔记相关错误
	ErrNoteNotFoundError     = New(ErrNoteNotFound, GetErrorMessage(ErrNoteNotFound))
	ErrNoteTitleEmptyError   = New(ErrNoteTitleEmpty, GetErrorMessage(ErrNoteTitleEmpty))
	ErrNoteContentEmptyError = New(ErrNoteContentEmpty, GetErrorMessage(ErrNoteContentEmpty))

	// 文件相关错误
	ErrFileMissingError   = New(ErrFileMissing, GetErrorMessage(ErrFileMissing))
	ErrFileForbiddenError = New(ErrFileForbidden, GetErrorMessage(ErrFileForbidden))

	// 存储相关错误
	ErrStorageProviderNotSupportedError = New(ErrStorageProviderNotSupported, GetErrorMessage(ErrStorageProviderNotSupported))

	// 数据库相关错误
	ErrUserNotFoundError = New(ErrUserNotFound, GetErrorMessage(ErrUserNotFound))
)

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:        "success",
	ErrInternalServer: "internal_server_error",
	ErrInvalidParams:  "invalid_params",
	ErrUnauthorized:   "unauthorized",
	ErrForbidden:      "forbidden",
	ErrNotFound:       "not_found",

	ErrTokenMissing: "token_missing",
	ErrTokenInvalid: "token_invalid",

	ErrNoteNotFound:     "note_not_found",
	ErrNoteTitleEmpty:   "note_title_empty",
	ErrNoteContentEmpty: "note_content_empty",

	ErrFileMissing:      "file_missing",
	ErrFileForbidden:    "file_forbidden",
	ErrFileUploadFailed: "file_upload_failed",
	ErrFileListFailed:   "file_list_failed",
	ErrFileDeleteFailed: "file_delete_failed",

	ErrIdentitySignupFailed:        "identity_signup_failed",
	ErrIdentityConfirmFailed:       "identity_confirm_failed",
	ErrIdentityLoginFailed:         "identity_login_failed",
	ErrIdentityResetFailed:         "identity_reset_failed",
	ErrStorageUnavailable:          "storage_unavailable",
	ErrStorageProviderNotSupported: "storage_provider_not_supported",
	ErrTelemetryUnavailable:        "telemetry_unavailable",

	ErrDatabaseQuery:       "database_query",
	ErrDatabaseInsert:      "database_insert",
	ErrRecordNotFound:      "record_not_found",
	ErrRecordAlreadyExists: "record_already_exists",
	ErrUserNotFound:        "user_not_found",
	ErrDatabaseUpdate:      "database_update",
	ErrDatabaseDelete:      "database_delete",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}

	return i18n.GetInstance().Translate(key, lang)
}
