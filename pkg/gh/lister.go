package gh

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v75/github"
)

// EntryKind 对应 Contents API 返回的条目类型
// symlink / submodule 这类条目被视作不透明对象，列取时直接丢弃
type EntryKind string

const (
	EntryFile EntryKind = "file"
	EntryDir  EntryKind = "dir"
)

// TreeEntry 是一次目录列取返回的单个条目
// 生命周期仅限当前递归帧：Walker 消费后即丢弃，从不持久化
type TreeEntry struct {
	Name string
	Path string // 相对仓库根目录
	Kind EntryKind
}

// List 列取 coordinate 指定快照下 dir 目录的直接子条目
// dir 为空表示仓库根目录
//
// 失败策略（非致命）：非 200、超时、连接错误一律返回 error，
// 调用方把该子树当作"没有文件"继续遍历其余部分，不重试
func (c *Client) List(ctx context.Context, coord Coordinate, dir string) ([]TreeEntry, error) {
	opts := &github.RepositoryContentGetOptions{Ref: coord.Commit}

	_, dirContent, resp, err := c.api.Repositories.GetContents(ctx, coord.Owner, coord.Repo, dir, opts)
	if err != nil {
		status, body := errDetails(err, resp)
		c.log.Warn("failed to list contents",
			"coord", coord.String(),
			"path", dir,
			"status", status,
			"body", body,
		)
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	// 路径指向的是文件而不是目录，对列取来说属于协议失败
	if dirContent == nil {
		c.log.Warn("path is not a directory", "coord", coord.String(), "path", dir)
		return nil, fmt.Errorf("list %s: not a directory", dir)
	}

	entries := make([]TreeEntry, 0, len(dirContent))
	for _, item := range dirContent {
		kind := EntryKind(item.GetType())
		if kind != EntryFile && kind != EntryDir {
			continue // symlink / submodule 等：跳过
		}
		entries = append(entries, TreeEntry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Kind: kind,
		})
	}
	return entries, nil
}

// errDetails 从 go-github 的错误里尽量挖出状态码和响应消息用于日志
// 传输层错误（超时、连接拒绝）没有状态码，返回 0
func errDetails(err error, resp *github.Response) (int, string) {
	status := 0
	body := ""
	if resp != nil {
		status = resp.StatusCode
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		body = ghErr.Message
		if status == 0 && ghErr.Response != nil {
			status = ghErr.Response.StatusCode
		}
	}
	return status, body
}
