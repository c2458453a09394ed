package note

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/weiwangfds/cloudnotes/internal/database"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
	"github.com/weiwangfds/cloudnotes/internal/logger"
	"gorm.io/gorm"
)

// CreateNoteRequest 创建笔记请求参数
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest 更新笔记请求参数，空字段保留原值
type UpdateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Service 笔记服务接口，提供按用户隔离的笔记增删改查
// 所有查询都以(id, userID)为条件，其他用户的笔记一律视为不存在
type Service interface {
	// ListNotes 获取指定用户的全部笔记，按更新时间倒序
	ListNotes(userID string) ([]database.Note, error)
	// CreateNote 创建笔记
	CreateNote(userID string, req *CreateNoteRequest) (*database.Note, error)
	// GetNote 获取单条笔记
	GetNote(id, userID string) (*database.Note, error)
	// UpdateNote 更新笔记，空字段保留原值
	UpdateNote(id, userID string, req *UpdateNoteRequest) (*database.Note, error)
	// DeleteNote 删除笔记
	DeleteNote(id, userID string) error
}

type noteService struct {
	db *gorm.DB
}

// NewService 创建笔记服务实例
func NewService(db *gorm.DB) Service {
	return &noteService{db: db}
}

// ListNotes 获取指定用户的全部笔记，按更新时间倒序
func (s *noteService) ListNotes(userID string) ([]database.Note, error) {
	var notes []database.Note
	err := s.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery,
			fmt.Errorf("failed to list notes: %w", err))
	}
	return notes, nil
}

// CreateNote 创建笔记
func (s *noteService) CreateNote(userID string, req *CreateNoteRequest) (*database.Note, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.ErrNoteTitleEmptyError
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.ErrNoteContentEmptyError
	}

	note := &database.Note{
		ID:      uuid.NewString(),
		Title:   req.Title,
		Content: req.Content,
		UserID:  userID,
	}
	if err := s.db.Create(note).Error; err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseInsert,
			fmt.Errorf("failed to create note: %w", err))
	}

	logger.Infof("[笔记服务] 笔记创建成功: %s, 用户: %s", note.ID, userID)
	return note, nil
}

// GetNote 获取单条笔记
func (s *noteService) GetNote(id, userID string) (*database.Note, error) {
	var note database.Note
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFoundError
		}
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery,
			fmt.Errorf("failed to query note: %w", err))
	}
	return &note, nil
}

// UpdateNote 更新笔记，空字段保留原值
func (s *noteService) UpdateNote(id, userID string, req *UpdateNoteRequest) (*database.Note, error) {
	note, err := s.GetNote(id, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) != "" {
		note.Title = req.Title
	}
	if strings.TrimSpace(req.Content) != "" {
		note.Content = req.Content
	}

	if err := s.db.Save(note).Error; err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseUpdate,
			fmt.Errorf("failed to update note: %w", err))
	}

	logger.Infof("[笔记服务] 笔记更新成功: %s", note.ID)
	return note, nil
}

// DeleteNote 删除笔记
func (s *noteService) DeleteNote(id, userID string) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&database.Note{})
	if result.Error != nil {
		return apperrors.WrapCode(apperrors.ErrDatabaseDelete,
			fmt.Errorf("failed to delete note: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNoteNotFoundError
	}

	logger.Infof("[笔记服务] 笔记删除成功: %s", id)
	return nil
}
