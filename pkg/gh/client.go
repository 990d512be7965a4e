package gh

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
)

const (
	// 每个请求的硬超时。超时和非 200 等价处理：该次调用失败，遍历继续。
	defaultTimeout = 15 * time.Second

	defaultRawBase = "https://raw.githubusercontent.com"
)

// Credential 是调用方提供的只读凭证对（Basic Auth）
// 本包只透传，从不落盘
type Credential struct {
	Username string
	Token    string
}

func (c Credential) IsZero() bool {
	return c.Username == "" || c.Token == ""
}

// Config 初始化 Client 所需的全部参数
type Config struct {
	Credential Credential

	// APIBaseURL 覆盖 GitHub API 地址（测试注入 httptest.Server 用）
	// 留空使用 api.github.com
	APIBaseURL string

	// RawBaseURL 覆盖 raw 内容分发地址，留空使用 raw.githubusercontent.com
	RawBaseURL string

	Timeout time.Duration
	Logger  *slog.Logger
}

// Client 封装对 GitHub 的两类远端访问:
// 结构化 Contents API (go-github) 和 raw 字节端点 (裸 HTTP)
type Client struct {
	api     *github.Client
	httpc   *http.Client // raw 通道复用同一个带超时的 http.Client
	cred    Credential
	rawBase string
	log     *slog.Logger
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Credential.IsZero() {
		return nil, fmt.Errorf("github credential is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RawBaseURL == "" {
		cfg.RawBaseURL = defaultRawBase
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// Basic Auth 挂在 Transport 上，所有 API 请求自动带凭证
	httpc := &http.Client{
		Transport: &github.BasicAuthTransport{
			Username: cfg.Credential.Username,
			Password: cfg.Credential.Token,
		},
		Timeout: cfg.Timeout,
	}

	api := github.NewClient(httpc)
	if cfg.APIBaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.APIBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid api base url: %w", err)
		}
		api.BaseURL = base
	}

	return &Client{
		api:     api,
		httpc:   httpc,
		cred:    cfg.Credential,
		rawBase: strings.TrimSuffix(cfg.RawBaseURL, "/"),
		log:     cfg.Logger,
	}, nil
}

// Verify 执行认证探测 (GET /user)
// 失败属于 Setup 阶段的致命错误，调用方应在遍历开始前终止
func (c *Client) Verify(ctx context.Context) (string, error) {
	user, resp, err := c.api.Users.Get(ctx, "")
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("authentication failed (status=%d): %w", resp.StatusCode, err)
		}
		return "", fmt.Errorf("authentication failed: %w", err)
	}
	return user.GetLogin(), nil
}
