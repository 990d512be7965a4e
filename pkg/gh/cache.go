package gh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

// CachedFetcher 是一个装饰器，为底层 Fetcher 添加 Redis 内容缓存
//
// 缓存键里带着 commit：快照是不可变的，所以命中永远有效，
// 不存在失效问题。这也是为什么敢直接缓存文件字节而不只是存在性。
type CachedFetcher struct {
	next   Fetcher
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// CacheConfig 初始化缓存层
type CacheConfig struct {
	RedisURL string        // 标准连接字符串: redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // 过期时间 (例如 24h)
	Logger   *slog.Logger
}

// cachedBlob 是存进 Redis 的值，CBOR 编码（紧凑、二进制安全）
type cachedBlob struct {
	Data    []byte `cbor:"d"`
	Channel string `cbor:"c"` // 原始命中通道，回放时保留
}

func NewCachedFetcher(next Fetcher, cfg CacheConfig) (*CachedFetcher, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CachedFetcher{
		next:   next,
		client: client,
		ttl:    cfg.TTL,
		log:    cfg.Logger,
	}, nil
}

// cacheKey 加前缀防止和别的应用冲突
func cacheKey(coord Coordinate, filePath string) string {
	return fmt.Sprintf("ghm:blob:%s/%s@%s:%s", coord.Owner, coord.Repo, coord.Commit, filePath)
}

// Fetch 先查 Redis，未命中再穿透到通道链
//
// 降级策略：Redis 故障时绝不让遍历失败，
// 打一条 Warning 然后退化成直连获取（和没有缓存一样）
func (f *CachedFetcher) Fetch(ctx context.Context, coord Coordinate, filePath string) (Retrieved, error) {
	key := cacheKey(coord, filePath)

	raw, err := f.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var blob cachedBlob
		if decErr := cbor.Unmarshal(raw, &blob); decErr == nil {
			return Retrieved{Data: blob.Data, Channel: "cache"}, nil
		}
		// 值损坏：当作未命中，穿透后覆盖写
		f.log.Warn("corrupt cache entry, refetching", "key", key)
	case err != redis.Nil:
		f.log.Warn("redis error, falling back to direct fetch", "err", err)
	}

	got, err := f.next.Fetch(ctx, coord, filePath)
	if err != nil {
		return Retrieved{}, err
	}

	// 缓存回填。写失败不影响主流程，忽略错误。
	if encoded, encErr := cbor.Marshal(cachedBlob{Data: got.Data, Channel: got.Channel}); encErr == nil {
		f.client.Set(ctx, key, encoded, f.ttl)
	}

	return got, nil
}

// Close 释放 Redis 连接
func (f *CachedFetcher) Close() error {
	return f.client.Close()
}
