package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ghmirror/pkg/gh"

	"gorm.io/datatypes"
)

// Repository 封装所有对历史库的操作
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Record 落一条镜像运行记录
// 记录失败不应该影响镜像本身的结果，调用方只打日志
func (r *Repository) Record(ctx context.Context, coord gh.Coordinate, outputDir string, downloaded, failed int, failedPaths []string, startedAt time.Time, duration time.Duration) error {
	failedJSON, err := json.Marshal(failedPaths)
	if err != nil {
		return fmt.Errorf("failed to marshal failed paths: %w", err)
	}

	run := MirrorRun{
		Owner:       coord.Owner,
		Repo:        coord.Repo,
		Commit:      coord.Commit,
		RootPath:    coord.RootPath,
		OutputDir:   outputDir,
		Downloaded:  downloaded,
		Failed:      failed,
		FailedPaths: datatypes.JSON(failedJSON),
		StartedAt:   startedAt,
		DurationMS:  duration.Milliseconds(),
	}

	if err := r.db.GetConn().WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record mirror run: %w", err)
	}
	return nil
}

// Recent 按时间倒序返回最近 limit 条运行记录
func (r *Repository) Recent(ctx context.Context, limit int) ([]MirrorRun, error) {
	var runs []MirrorRun
	err := r.db.GetConn().WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// FindByRepo 按仓库过滤最近的运行记录
func (r *Repository) FindByRepo(ctx context.Context, owner, repo string, limit int) ([]MirrorRun, error) {
	var runs []MirrorRun
	err := r.db.GetConn().WithContext(ctx).
		Where("owner = ? AND repo = ?", owner, repo).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
