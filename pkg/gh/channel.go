package gh

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v75/github"
)

// Retrieved 是单次文件获取的结果，Persister 消费后即丢弃
type Retrieved struct {
	Data    []byte
	Channel string // 命中的通道名 ("api" / "raw" / "cache")
}

// Channel 表示一条具名的内容获取通道
// 新增通道（比如 CDN 镜像）只需要往 ChainFetcher 的列表里加一个实现
type Channel interface {
	Name() string
	Fetch(ctx context.Context, coord Coordinate, filePath string) ([]byte, error)
}

// ChannelError 携带通道名和状态码，方便上层拼出
// "api=404 raw=500" 这样的组合失败日志
type ChannelError struct {
	Channel string
	Status  int // 0 表示传输层失败，没拿到状态码
	Err     error
}

func (e *ChannelError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s channel failed (status=%d): %v", e.Channel, e.Status, e.Err)
	}
	return fmt.Sprintf("%s channel failed: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// Fetcher 是 Walker 看到的获取入口
// 接口化的目的：缓存装饰器 (CachedFetcher) 可以套在外面而 Walker 无感知
type Fetcher interface {
	Fetch(ctx context.Context, coord Coordinate, filePath string) (Retrieved, error)
}

// -----------------------------------------------------------------------------
// 主通道：Contents API (base64 信封)
// -----------------------------------------------------------------------------

type apiChannel struct {
	c *Client
}

func (ch *apiChannel) Name() string { return "api" }

// Fetch 走结构化端点。成功条件（缺一即判失败，落到下一条通道）：
//  1. HTTP 200
//  2. payload 的 type 是 "file"
//  3. encoding 是 base64 且 content 字段存在
//
// GitHub 对超过 1MB 的文件返回 encoding="none"，同样走 raw 兜底
func (ch *apiChannel) Fetch(ctx context.Context, coord Coordinate, filePath string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{Ref: coord.Commit}

	fileContent, _, resp, err := ch.c.api.Repositories.GetContents(ctx, coord.Owner, coord.Repo, filePath, opts)
	if err != nil {
		status, _ := errDetails(err, resp)
		return nil, &ChannelError{Channel: ch.Name(), Status: status, Err: err}
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	if fileContent == nil || fileContent.GetType() != "file" {
		return nil, &ChannelError{Channel: ch.Name(), Status: status,
			Err: fmt.Errorf("path %s is not a file", filePath)}
	}
	if fileContent.GetEncoding() != "base64" || fileContent.Content == nil {
		return nil, &ChannelError{Channel: ch.Name(), Status: status,
			Err: fmt.Errorf("no base64 content in response for %s (encoding=%q)", filePath, fileContent.GetEncoding())}
	}

	// API 返回的 base64 带换行，去掉再解码
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(*fileContent.Content, "\n", ""))
	if err != nil {
		return nil, &ChannelError{Channel: ch.Name(), Status: status,
			Err: fmt.Errorf("decode content of %s: %w", filePath, err)}
	}
	return data, nil
}

// -----------------------------------------------------------------------------
// 兜底通道：raw 字节端点（无 JSON 信封，响应体就是文件内容）
// -----------------------------------------------------------------------------

type rawChannel struct {
	c *Client
}

func (ch *rawChannel) Name() string { return "raw" }

func (ch *rawChannel) Fetch(ctx context.Context, coord Coordinate, filePath string) ([]byte, error) {
	rawURL := fmt.Sprintf("%s/%s/%s/%s/%s", ch.c.rawBase, coord.Owner, coord.Repo, coord.Commit, filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &ChannelError{Channel: ch.Name(), Err: err}
	}
	// raw 端点通常不要求认证，但照常附带（与主通道行为一致）
	req.SetBasicAuth(ch.c.cred.Username, ch.c.cred.Token)

	resp, err := ch.c.httpc.Do(req)
	if err != nil {
		// 传输层异常在通道内部消化，绝不向上抛
		return nil, &ChannelError{Channel: ch.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ChannelError{Channel: ch.Name(), Status: resp.StatusCode,
			Err: fmt.Errorf("unexpected status for %s", filePath)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ChannelError{Channel: ch.Name(), Status: resp.StatusCode, Err: err}
	}
	return data, nil
}

// -----------------------------------------------------------------------------
// ChainFetcher: 按固定顺序尝试通道列表，首个成功者胜出
// -----------------------------------------------------------------------------

type ChainFetcher struct {
	channels []Channel
	log      *slog.Logger
}

// NewFetcher 构造标准的两级获取链：api -> raw
func NewFetcher(c *Client) *ChainFetcher {
	return &ChainFetcher{
		channels: []Channel{&apiChannel{c}, &rawChannel{c}},
		log:      c.log,
	}
}

// Fetch 依次尝试每条通道，短路于第一次成功
// 全部失败时返回带组合状态信息的错误；这对整体遍历不是致命的，
// 调用方跳过该文件继续
func (f *ChainFetcher) Fetch(ctx context.Context, coord Coordinate, filePath string) (Retrieved, error) {
	var failures []string

	for _, ch := range f.channels {
		data, err := ch.Fetch(ctx, coord, filePath)
		if err == nil {
			return Retrieved{Data: data, Channel: ch.Name()}, nil
		}

		f.log.Warn("channel failed",
			"channel", ch.Name(),
			"path", filePath,
			"err", err,
		)
		failures = append(failures, channelStatus(ch.Name(), err))
	}

	return Retrieved{}, fmt.Errorf("all channels failed for %s (%s)", filePath, strings.Join(failures, " "))
}

func channelStatus(name string, err error) string {
	var chErr *ChannelError
	if errors.As(err, &chErr) && chErr.Status > 0 {
		return fmt.Sprintf("%s=%d", name, chErr.Status)
	}
	return fmt.Sprintf("%s=err", name)
}
