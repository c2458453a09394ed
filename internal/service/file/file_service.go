package file

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
	"github.com/weiwangfds/cloudnotes/internal/logger"
	"github.com/weiwangfds/cloudnotes/internal/service/storage"
)

// 单用户文件列表的单页上限
const listMaxKeys = 1000

// UploadResult 文件上传结果
type UploadResult struct {
	Key          string `json:"Key"`
	Location     string `json:"Location"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	ContentType  string `json:"contentType"`
}

// FileEntry 文件列表条目
type FileEntry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
}

// Service 文件服务接口，封装对象存储上的用户文件管理
// 每个用户的文件都放在users/<userID>/前缀下，
// 删除前先校验键前缀，防止越权操作他人文件
type Service interface {
	// UploadFile 上传文件到调用者的存储命名空间
	UploadFile(ctx context.Context, userID string, header *multipart.FileHeader) (*UploadResult, error)
	// ListFiles 列出调用者的全部文件
	ListFiles(ctx context.Context, userID string) ([]FileEntry, error)
	// DeleteFile 删除指定文件，键不在调用者命名空间内时拒绝
	DeleteFile(ctx context.Context, userID, key string) error
}

type fileService struct {
	storage storage.Provider
}

// NewService 创建文件服务实例
func NewService(provider storage.Provider) Service {
	return &fileService{storage: provider}
}

// userPrefix 返回用户的对象键前缀
func userPrefix(userID string) string {
	return fmt.Sprintf("users/%s/", userID)
}

// UploadFile 上传文件到调用者的存储命名空间
// 对象键为users/<userID>/<uuid><扩展名>，原始文件名经URL编码后
// 存入对象元数据，不参与键的构造
func (s *fileService) UploadFile(ctx context.Context, userID string, header *multipart.FileHeader) (*UploadResult, error) {
	src, err := header.Open()
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrFileUploadFailed,
			fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("%s%s%s", userPrefix(userID), uuid.NewString(), ext)
	contentType := header.Header.Get("Content-Type")

	metadata := map[string]string{
		"original-name": url.QueryEscape(header.Filename),
		"upload-date":   time.Now().Format(time.RFC3339),
	}

	if err := s.storage.UploadFile(ctx, key, src, contentType, metadata); err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrFileUploadFailed,
			fmt.Errorf("failed to upload object %s: %w", key, err))
	}

	logger.Infof("[文件服务] 文件上传成功: %s, 用户: %s, 大小: %d", key, userID, header.Size)
	return &UploadResult{
		Key:          key,
		Location:     s.storage.ObjectURL(key),
		OriginalName: header.Filename,
		Size:         header.Size,
		ContentType:  contentType,
	}, nil
}

// ListFiles 列出调用者的全部文件
func (s *fileService) ListFiles(ctx context.Context, userID string) ([]FileEntry, error) {
	objects, err := s.storage.ListFiles(ctx, userPrefix(userID), listMaxKeys)
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrFileListFailed,
			fmt.Errorf("failed to list objects: %w", err))
	}

	entries := make([]FileEntry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, FileEntry{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			URL:          s.storage.ObjectURL(obj.Key),
		})
	}
	return entries, nil
}

// DeleteFile 删除指定文件
// 键前缀校验在任何存储调用之前完成，越权的键直接拒绝
func (s *fileService) DeleteFile(ctx context.Context, userID, key string) error {
	if !strings.HasPrefix(key, userPrefix(userID)) {
		return apperrors.ErrFileForbiddenError
	}

	if err := s.storage.DeleteFile(ctx, key); err != nil {
		return apperrors.WrapCode(apperrors.ErrFileDeleteFailed,
			fmt.Errorf("failed to delete object %s: %w", key, err))
	}

	logger.Infof("[文件服务] 文件删除成功: %s, 用户: %s", key, userID)
	return nil
}
