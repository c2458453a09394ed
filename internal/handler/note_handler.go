package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
	"github.com/weiwangfds/cloudnotes/internal/middleware"
	"github.com/weiwangfds/cloudnotes/internal/response"
	"github.com/weiwangfds/cloudnotes/internal/service/note"
)

// NoteHandler 笔记处理器
// 提供按用户隔离的笔记CRUD接口
type NoteHandler struct {
	noteService note.Service
}

// NewNoteHandler 创建笔记处理器实例
func NewNoteHandler(noteService note.Service) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// ListNotes 获取笔记列表
// @Summary 获取当前用户的全部笔记
// @Description 按更新时间倒序返回当前用户的笔记
// @Tags 笔记管理
// @Produce json
// @Security BearerAuth
// @Success 200 {array} database.Note "笔记列表"
// @Failure 401 {object} response.MessageBody "缺少令牌"
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.noteService.ListNotes(middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// CreateNote 创建笔记
// @Summary 创建新笔记
// @Description 创建一条属于当前用户的笔记，标题和内容不能为空
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body note.CreateNoteRequest true "创建笔记请求"
// @Success 201 {object} database.Note "创建成功"
// @Failure 400 {object} response.MessageBody "标题或内容为空"
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req note.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInvalidParams), err)
		return
	}

	created, err := h.noteService.CreateNote(middleware.CurrentUserID(c), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Created(c, created)
}

// GetNote 获取笔记详情
// @Summary 获取单条笔记
// @Description 按ID获取当前用户的笔记，其他用户的笔记返回404
// @Tags 笔记管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "笔记ID"
// @Success 200 {object} database.Note "笔记详情"
// @Failure 404 {object} response.MessageBody "笔记不存在"
// @Router /notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	found, err := h.noteService.GetNote(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// UpdateNote 更新笔记
// @Summary 更新笔记
// @Description 更新当前用户的笔记，空字段保留原值
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "笔记ID"
// @Param request body note.UpdateNoteRequest true "更新笔记请求"
// @Success 200 {object} database.Note "更新后的笔记"
// @Failure 404 {object} response.MessageBody "笔记不存在"
// @Router /notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req note.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInvalidParams), err)
		return
	}

	updated, err := h.noteService.UpdateNote(c.Param("id"), middleware.CurrentUserID(c), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteNote 删除笔记
// @Summary 删除笔记
// @Description 删除当前用户的笔记，其他用户的笔记返回404
// @Tags 笔记管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "笔记ID"
// @Success 200 {object} response.MessageBody "删除成功"
// @Failure 404 {object} response.MessageBody "笔记不存在"
// @Router /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.noteService.DeleteNote(c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		h.renderError(c, err)
		return
	}
	response.Message(c, "笔记删除成功")
}

// renderError 将服务层错误转换为HTTP响应
func (h *NoteHandler) renderError(c *gin.Context, err error) {
	if appErr, ok := apperrors.GetAppError(err); ok {
		response.AppError(c, appErr)
		return
	}
	response.InternalServerErrorWithError(c,
		apperrors.GetErrorMessage(apperrors.ErrInternalServer), err)
}
