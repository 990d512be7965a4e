package meta

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ghmirror/pkg/gh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRepo 构建隔离的测试环境（内存 SQLite）
func setupTestRepo(t *testing.T) *Repository {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	metaDB := NewWithConn(db)
	require.NoError(t, metaDB.AutoMigrate(&MirrorRun{}))

	return NewRepository(metaDB)
}

var testCoord = gh.Coordinate{Owner: "acme", Repo: "widgets", Commit: "abcdef1234567", RootPath: "src"}

func TestRepository_RecordAndRecent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	start := time.Now().Add(-time.Minute)
	err := repo.Record(ctx, testCoord, "github_download/widgets_abcdef1", 42, 2,
		[]string{"src/gone.txt", "src/also-gone.bin"}, start, 90*time.Second)
	require.NoError(t, err)

	runs, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, "acme", r.Owner)
	assert.Equal(t, "widgets", r.Repo)
	assert.Equal(t, "abcdef1234567", r.Commit)
	assert.Equal(t, "src", r.RootPath)
	assert.Equal(t, 42, r.Downloaded)
	assert.Equal(t, 2, r.Failed)
	assert.Equal(t, int64(90000), r.DurationMS)

	// 失败清单走 JSON 列
	assert.JSONEq(t, `["src/gone.txt","src/also-gone.bin"]`, string(r.FailedPaths))
}

func TestRepository_RecentOrdersByStartDesc(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	require.NoError(t, repo.Record(ctx, testCoord, "out/old", 1, 0, nil, older, time.Second))
	require.NoError(t, repo.Record(ctx, testCoord, "out/new", 2, 0, nil, newer, time.Second))

	runs, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "out/new", runs[0].OutputDir)
}

func TestRepository_FindByRepo(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	other := gh.Coordinate{Owner: "beta", Repo: "gadgets", Commit: "1234567"}
	require.NoError(t, repo.Record(ctx, testCoord, "out/a", 1, 0, nil, time.Now(), time.Second))
	require.NoError(t, repo.Record(ctx, other, "out/b", 1, 0, nil, time.Now(), time.Second))

	runs, err := repo.FindByRepo(ctx, "acme", "widgets", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "widgets", runs[0].Repo)
}
