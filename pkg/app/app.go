// pkg/app/app.go
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"ghmirror/pkg/gh"
	"ghmirror/pkg/ignore"
	"ghmirror/pkg/meta"

	"github.com/spf13/viper"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
// 日志、凭证、客户端都在这里显式组装并注入，
// 不存在任何包级单例，测试时可以整体替换
type App struct {
	Logger *slog.Logger

	// GH 和 Fetcher 在凭证缺失时为 nil；
	// 需要远端访问的命令自行检查并给出友好提示
	GH      *gh.Client
	Fetcher gh.Fetcher

	History *meta.Repository
	Ignore  *ignore.Matcher

	logFile *os.File
}

// NewApp 是工厂函数，遵循 Viper 里的配置组装所有依赖
// 它不知道任何具体的 CLI 命令
func NewApp() (*App, error) {
	a := &App{}

	// 1. 日志：stderr，可选 tee 到文件
	var w io.Writer = os.Stderr
	if path := viper.GetString("log.file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		w = io.MultiWriter(os.Stderr, f)
	}
	a.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(viper.GetString("log.level")),
	}))

	// 2. 跳过规则
	matcher, err := ignore.NewMatcher(
		viper.GetString("mirror.ignore_file"),
		viper.GetStringSlice("mirror.ignore"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ignore rules: %w", err)
	}
	a.Ignore = matcher

	// 3. 运行历史 (本地 SQLite)
	db, err := meta.NewDB(viper.GetString("history.path"))
	if err != nil {
		return nil, fmt.Errorf("failed to init history store: %w", err)
	}
	a.History = meta.NewRepository(db)

	// 4. GitHub 客户端 + 获取链（凭证齐了才建）
	cred := gh.Credential{
		Username: viper.GetString("github.username"),
		Token:    viper.GetString("github.token"),
	}
	if !cred.IsZero() {
		client, err := gh.NewClient(gh.Config{
			Credential: cred,
			APIBaseURL: viper.GetString("github.api_url"),
			RawBaseURL: viper.GetString("github.raw_url"),
			Logger:     a.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init github client: %w", err)
		}
		a.GH = client
		a.Fetcher = buildFetcher(client, a.Logger)
	}

	return a, nil
}

// buildFetcher 在配置了 Redis 时给通道链套上缓存装饰器
// Redis 不可达时降级为直连（打 Warning，不算错误）
func buildFetcher(client *gh.Client, log *slog.Logger) gh.Fetcher {
	chain := gh.NewFetcher(client)

	redisURL := viper.GetString("cache.redis_url")
	if redisURL == "" {
		return chain
	}

	cached, err := gh.NewCachedFetcher(chain, gh.CacheConfig{
		RedisURL: redisURL,
		TTL:      viper.GetDuration("cache.ttl"),
		Logger:   log,
	})
	if err != nil {
		log.Warn("content cache disabled", "err", err)
		return chain
	}
	return cached
}

// RequireGitHub 返回已配置的客户端，否则给出配置引导提示
func (a *App) RequireGitHub() (*gh.Client, error) {
	if a.GH == nil {
		return nil, fmt.Errorf("GitHub credentials not configured.\n" +
			"Set GITHUB_USERNAME and GITHUB_TOKEN in a .env file, environment, or config.yaml")
	}
	return a.GH, nil
}

// Close 释放日志文件等持有的资源
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
