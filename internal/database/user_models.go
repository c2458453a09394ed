// Package database 定义了用户相关的数据库模型
package database

import "time"

// User 用户模型
// 本地用户记录与Cognito用户池中的账号一一对应
// 凭证（密码、确认码）完全由Cognito管理，本地只保存基础档案信息
// 记录在注册时创建，或在首次携带有效令牌访问时延迟创建（JIT）
// 应用程序不会删除用户记录
type User struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`              // 主键ID（UUID格式）
	CognitoID *string   `gorm:"uniqueIndex;size:64" json:"cognitoId"`      // Cognito用户标识（sub），确认前可为空
	Email     string    `gorm:"uniqueIndex;not null;size:255" json:"email"` // 邮箱，必填且唯一，JIT去重的依据
	FirstName string    `gorm:"size:100" json:"firstName"`                 // 名，可选
	LastName  string    `gorm:"size:100" json:"lastName"`                  // 姓，可选
	CreatedAt time.Time `json:"createdAt"`                                 // 记录创建时间
	UpdatedAt time.Time `json:"updatedAt"`                                 // 记录最后更新时间

	// 关联关系
	Notes []Note `gorm:"foreignKey:UserID" json:"notes,omitempty"` // 一对多关联笔记
}

// TableName 指定User模型对应的数据库表名
func (User) TableName() string {
	return "users"
}
