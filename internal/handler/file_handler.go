package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
	"github.com/weiwangfds/cloudnotes/internal/middleware"
	"github.com/weiwangfds/cloudnotes/internal/response"
	"github.com/weiwangfds/cloudnotes/internal/service/file"
)

// FileHandler 文件处理器
// 提供对象存储上的用户文件上传、列表和删除接口
type FileHandler struct {
	fileService file.Service
}

// NewFileHandler 创建文件处理器实例
func NewFileHandler(fileService file.Service) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

// UploadFile 上传文件
// @Summary 上传文件
// @Description 将multipart表单中的file字段上传到当前用户的存储命名空间
// @Tags 文件管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "待上传的文件"
// @Success 200 {object} file.UploadResult "上传成功"
// @Failure 400 {object} response.MessageBody "未携带文件"
// @Failure 500 {object} response.MessageBody "上传失败"
// @Router /files/upload [post]
func (h *FileHandler) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, apperrors.GetErrorMessage(apperrors.ErrFileMissing))
		return
	}

	result, err := h.fileService.UploadFile(c.Request.Context(),
		middleware.CurrentUserID(c), header)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListFiles 获取文件列表
// @Summary 获取当前用户的文件列表
// @Description 列出当前用户存储命名空间下的全部文件及其访问地址
// @Tags 文件管理
// @Produce json
// @Security BearerAuth
// @Success 200 {array} file.FileEntry "文件列表"
// @Failure 500 {object} response.MessageBody "列表获取失败"
// @Router /files [get]
func (h *FileHandler) ListFiles(c *gin.Context) {
	entries, err := h.fileService.ListFiles(c.Request.Context(),
		middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteFile 删除文件
// @Summary 删除文件
// @Description 删除指定对象键的文件，键不属于当前用户时返回403
// @Tags 文件管理
// @Produce json
// @Security BearerAuth
// @Param key path string true "对象键，URL编码"
// @Success 200 {object} response.MessageBody "删除成功"
// @Failure 403 {object} response.MessageBody "文件不属于当前用户"
// @Router /files/{key} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	// 路由以原始路径匹配，对象键含斜杠时以%2F传入，这里还原
	key, err := url.PathUnescape(c.Param("key"))
	if err != nil {
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInvalidParams), err)
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(),
		middleware.CurrentUserID(c), key); err != nil {
		h.renderError(c, err)
		return
	}
	response.Message(c, "文件删除成功")
}

// renderError 将服务层错误转换为HTTP响应
func (h *FileHandler) renderError(c *gin.Context, err error) {
	if appErr, ok := apperrors.GetAppError(err); ok {
		response.AppError(c, appErr)
		return
	}
	response.InternalServerErrorWithError(c,
		apperrors.GetErrorMessage(apperrors.ErrInternalServer), err)
}
