// Package response 提供统一的HTTP响应辅助函数
// 响应体保持与历史API契约一致：错误时返回 {message: ...}，
// 成功时由各处理器直接返回业务数据
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/cloudnotes/internal/errors"
)

// MessageBody 仅包含提示消息的响应体
// @Description 通用消息响应格式
type MessageBody struct {
	// 提示消息
	Message string `json:"message" example:"操作成功"`
	// 详细错误信息，可选
	Error string `json:"error,omitempty"`
}

// Message 带提示消息的成功响应
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Created 201创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, MessageBody{Message: message})
}

// BadRequestWithError 带详细错误的400响应
func BadRequestWithError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, MessageBody{Message: message, Error: errDetail(err)})
}

// Unauthorized 401错误响应
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, MessageBody{Message: message})
}

// Forbidden 403错误响应
func Forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, MessageBody{Message: message})
}

// ForbiddenWithError 带详细错误的403响应
func ForbiddenWithError(c *gin.Context, message string, err error) {
	c.AbortWithStatusJSON(http.StatusForbidden, MessageBody{Message: message, Error: errDetail(err)})
}

// NotFound 404错误响应
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, MessageBody{Message: message})
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, MessageBody{Message: message})
}

// InternalServerErrorWithError 带详细错误的500响应
func InternalServerErrorWithError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusInternalServerError, MessageBody{Message: message, Error: errDetail(err)})
}

// AppError 根据应用错误码返回对应的HTTP状态
// 状态映射：参数错误400，令牌缺失401，令牌无效/禁止访问403，
// 未找到404，其余一律500
func AppError(c *gin.Context, err *errors.AppError) {
	switch err.Code {
	case errors.ErrInvalidParams, errors.ErrNoteTitleEmpty, errors.ErrNoteContentEmpty, errors.ErrFileMissing:
		BadRequest(c, err.Message)
	case errors.ErrTokenMissing, errors.ErrUnauthorized:
		Unauthorized(c, err.Message)
	case errors.ErrTokenInvalid, errors.ErrForbidden, errors.ErrFileForbidden:
		Forbidden(c, err.Message)
	case errors.ErrNotFound, errors.ErrNoteNotFound, errors.ErrUserNotFound, errors.ErrRecordNotFound:
		NotFound(c, err.Message)
	default:
		InternalServerError(c, err.Message)
	}
}

// errDetail 提取错误详情字符串
func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
