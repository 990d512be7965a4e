package mirror

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"ghmirror/pkg/gh"
	"ghmirror/pkg/ignore"
	"ghmirror/pkg/sink"
)

// Lister 是 Walker 对目录列取的最小依赖（由 gh.Client 满足）
type Lister interface {
	List(ctx context.Context, coord gh.Coordinate, dir string) ([]gh.TreeEntry, error)
}

// Stats 是一次遍历的累加结果
// 归属权很简单：每个递归帧各自持有一份，子树结果用加法并入父帧，
// 除此之外没有任何跨帧共享状态，所以不需要锁
type Stats struct {
	Downloaded int
	Failed     int

	// FailedPaths 记录失败文件的相对路径，供结尾摘要和运行历史使用
	FailedPaths []string
}

func (s Stats) Add(other Stats) Stats {
	return Stats{
		Downloaded:  s.Downloaded + other.Downloaded,
		Failed:      s.Failed + other.Failed,
		FailedPaths: append(s.FailedPaths, other.FailedPaths...),
	}
}

func (s *Stats) markFailed(path string) {
	s.Failed++
	s.FailedPaths = append(s.FailedPaths, path)
}

// Walker 深度优先遍历远端目录树：每个目录一次列取，
// 每个文件走 获取->分类->落盘，成功后限速
type Walker struct {
	lister  Lister
	fetcher gh.Fetcher
	sink    sink.Sink
	skip    *ignore.Matcher // 可以为 nil（只保留点前缀硬规则）
	pacer   Pacer
	log     *slog.Logger
}

func NewWalker(lister Lister, fetcher gh.Fetcher, out sink.Sink, skip *ignore.Matcher, pacer Pacer, log *slog.Logger) *Walker {
	if pacer == nil {
		pacer = DefaultPacer
	}
	if log == nil {
		log = slog.Default()
	}
	return &Walker{
		lister:  lister,
		fetcher: fetcher,
		sink:    out,
		skip:    skip,
		pacer:   pacer,
		log:     log,
	}
}

// Walk 处理 dir 下的一层目录并递归子目录，返回本子树的统计
//
// 失败全部就地消化：列取失败 => 整个子树记 0（不重试，兄弟子树照常）；
// 单个文件任何阶段失败 => 跳过该文件（计入 Failed，不限速）。
// 遍历一旦开始就跑到结束，没有中途取消机制。
func (w *Walker) Walk(ctx context.Context, coord gh.Coordinate, dir string) Stats {
	entries, err := w.lister.List(ctx, coord, dir)
	if err != nil {
		// 这一层贡献 0 个文件，上层继续
		return Stats{}
	}

	var stats Stats
	for _, entry := range entries {
		// 点开头的隐藏条目（.git 之类）整个跳过：不计数也不递归
		if strings.HasPrefix(entry.Name, ".") {
			continue
		}
		if w.skip != nil && w.skip.Matches(entry.Path) {
			w.log.Debug("ignored by pattern", "path", entry.Path)
			continue
		}

		switch entry.Kind {
		case gh.EntryFile:
			if w.mirrorFile(ctx, coord, entry) {
				stats.Downloaded++
				w.pacer.Pace()
			} else {
				stats.markFailed(entry.Path)
			}
		case gh.EntryDir:
			stats = stats.Add(w.Walk(ctx, coord, entry.Path))
		}
	}
	return stats
}

// mirrorFile 处理单个文件条目，返回是否成功落盘
func (w *Walker) mirrorFile(ctx context.Context, coord gh.Coordinate, entry gh.TreeEntry) bool {
	w.log.Info("downloading", "path", entry.Path)

	// 先把镜像目录建出来，即使后面下载失败目录也会存在
	if err := w.sink.EnsureDir(ctx, path.Dir(entry.Path)); err != nil {
		w.log.Error("failed to create output dir", "path", entry.Path, "err", err)
		return false
	}

	got, err := w.fetcher.Fetch(ctx, coord, entry.Path)
	if err != nil {
		w.log.Warn("download failed", "path", entry.Path, "err", err)
		return false
	}

	kind := Classify(got.Data)
	if err := w.sink.Write(ctx, entry.Path, got.Data, kind == Text); err != nil {
		// 文件系统失败同样只损失这一个文件
		w.log.Error("failed to persist file", "path", entry.Path, "err", err)
		return false
	}

	w.log.Info("downloaded",
		"path", entry.Path,
		"channel", got.Channel,
		"kind", kind.String(),
		"bytes", len(got.Data),
	)
	return true
}
