package sink

import "context"

// Sink 是镜像输出端的抽象
// 实现可以是本地磁盘（默认），也可以是 S3 兼容的对象存储
type Sink interface {
	// EnsureDir 幂等地保证相对目录存在
	// 对没有目录概念的后端（S3）是 no-op
	EnsureDir(ctx context.Context, relDir string) error

	// Write 把一个文件写到相对路径 relPath 下
	// text=true 表示内容已确认是合法 UTF-8，按文本方式写入；
	// 否则原样写二进制字节。已存在的文件静默覆盖。
	Write(ctx context.Context, relPath string, data []byte, text bool) error
}
