// Package database 定义了笔记相关的数据库模型
package database

import "time"

// Note 笔记模型
// 笔记只能由其所有者创建、修改和删除，所有查询都按调用者身份过滤
// 不做软删除，也不做版本管理
type Note struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`         // 主键ID（UUID格式）
	Title     string    `gorm:"not null;size:255" json:"title"`       // 笔记标题，必填
	Content   string    `gorm:"type:text;not null" json:"content"`    // 笔记内容，必填
	UserID    string    `gorm:"not null;index;size:36" json:"userId"` // 所属用户ID，外键，必填
	CreatedAt time.Time `json:"createdAt"`                            // 笔记创建时间
	UpdatedAt time.Time `json:"updatedAt"`                            // 笔记最后修改时间
}

// TableName 指定Note模型对应的数据库表名
func (Note) TableName() string {
	return "notes"
}
