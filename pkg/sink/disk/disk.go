package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Sink 实现 sink.Sink，把远端目录结构原样镜像到本地文件系统
type Sink struct {
	root string // 本次运行的输出根目录，例如 github_download/widgets_abcdef1
}

// NewSink 创建磁盘输出端，顺手把根目录建好
func NewSink(root string) (*Sink, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root: %w", err)
	}
	return &Sink{root: root}, nil
}

func (s *Sink) Root() string { return s.root }

func (s *Sink) EnsureDir(_ context.Context, relDir string) error {
	return os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(relDir)), 0755)
}

// Write 覆盖语义：不合并、不保留旧版本
// 文本走字符串写入，二进制原样写字节
func (s *Sink) Write(_ context.Context, relPath string, data []byte, text bool) error {
	target := filepath.Join(s.root, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create parent dir for %s: %w", relPath, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", relPath, err)
	}
	defer f.Close()

	if text {
		_, err = f.WriteString(string(data))
	} else {
		_, err = f.Write(data)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return nil
}
