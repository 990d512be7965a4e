package meta

import (
	"time"

	"gorm.io/datatypes"
)

// MirrorRun 是一次镜像运行在关系型数据库里的投影
// 用于 `ghm log` 快速回看历史（下了哪个仓库哪个提交、成败数量、落在哪）
type MirrorRun struct {
	ID uint `gorm:"primaryKey"`

	// 快照坐标
	Owner    string `gorm:"index;type:varchar(100)"`
	Repo     string `gorm:"index;type:varchar(100)"`
	Commit   string `gorm:"type:varchar(64);not null"`
	RootPath string `gorm:"type:varchar(255)"`

	// 结果
	OutputDir  string `gorm:"type:varchar(255)"`
	Downloaded int
	Failed     int

	// FailedPaths: 失败文件的相对路径列表，JSON 存储
	FailedPaths datatypes.JSON

	StartedAt  time.Time `gorm:"index"`
	DurationMS int64

	CreatedAt time.Time
}

// TableName 强制指定表名
func (MirrorRun) TableName() string {
	return "mirror_runs"
}
