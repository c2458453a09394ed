// Package user 用户服务的单元测试
// 覆盖注册建档、首次登录JIT建档和重复建档的幂等行为
package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/cloudnotes/internal/database"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 设置内存测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// TestRegister 测试注册建档
func TestRegister(t *testing.T) {
	svc := NewService(setupTestDB(t))

	created, err := svc.Register("sub-1", "alice@x.com", "Alice", "Liddell")
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice@x.com", created.Email)
	assert.Equal(t, "Alice", created.FirstName)
	require.NotNil(t, created.CognitoID)
	assert.Equal(t, "sub-1", *created.CognitoID)
}

// TestRegisterDuplicateEmail 测试重复注册复用已有记录
func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(setupTestDB(t))

	first, err := svc.Register("sub-1", "alice@x.com", "Alice", "Liddell")
	require.NoError(t, err)

	second, err := svc.Register("sub-2", "alice@x.com", "Alice", "Liddell")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

// TestEnsureUserCreates 测试首次登录自动建档，档案属性一并写入
func TestEnsureUserCreates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user, err := svc.EnsureUser("sub-1", "alice@x.com", "Alice", "Liddell")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.Equal(t, "Alice", user.FirstName)
	assert.Equal(t, "Liddell", user.LastName)

	var count int64
	require.NoError(t, db.Model(&database.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestEnsureUserIdempotent 测试重复调用返回同一条记录
func TestEnsureUserIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	first, err := svc.EnsureUser("sub-1", "alice@x.com", "Alice", "Liddell")
	require.NoError(t, err)

	second, err := svc.EnsureUser("sub-1", "alice@x.com", "Alice", "Liddell")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&database.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestEnsureUserBackfillsProfile 测试为注册期遗留的记录回填外部标识和姓名
func TestEnsureUserBackfillsProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	// 模拟一条没有外部标识和姓名的历史记录
	require.NoError(t, db.Create(&database.User{
		ID:    "legacy-id",
		Email: "alice@x.com",
	}).Error)

	user, err := svc.EnsureUser("sub-1", "alice@x.com", "Alice", "Liddell")
	require.NoError(t, err)
	assert.Equal(t, "legacy-id", user.ID)
	require.NotNil(t, user.CognitoID)
	assert.Equal(t, "sub-1", *user.CognitoID)
	assert.Equal(t, "Alice", user.FirstName)
	assert.Equal(t, "Liddell", user.LastName)

	// 回填已写入数据库
	var stored database.User
	require.NoError(t, db.First(&stored, "id = ?", "legacy-id").Error)
	assert.Equal(t, "Alice", stored.FirstName)
	assert.Equal(t, "Liddell", stored.LastName)
}

// TestEnsureUserKeepsExistingNames 测试已有姓名不被覆盖
func TestEnsureUserKeepsExistingNames(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	first, err := svc.Register("sub-1", "alice@x.com", "Alicia", "Lidd")
	require.NoError(t, err)

	user, err := svc.EnsureUser("sub-1", "alice@x.com", "Alice", "Liddell")
	require.NoError(t, err)
	assert.Equal(t, first.ID, user.ID)
	assert.Equal(t, "Alicia", user.FirstName)
	assert.Equal(t, "Lidd", user.LastName)
}

// TestGetByID 测试按主键查找用户
func TestGetByID(t *testing.T) {
	svc := NewService(setupTestDB(t))

	created, err := svc.EnsureUser("sub-1", "alice@x.com", "Alice", "Liddell")
	require.NoError(t, err)

	found, err := svc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, found.Email)

	_, err = svc.GetByID("missing-id")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUserNotFound))
}
