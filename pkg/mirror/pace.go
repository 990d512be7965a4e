package mirror

import (
	"math/rand/v2"
	"time"
)

// Pacer 在每次成功下载后阻塞一小段时间
// 只在成功时调用：跳过的文件和目录列取都不触发
type Pacer interface {
	Pace()
}

// RandomPacer 从 [Min, Max) 均匀抽取延迟时长
// 目的：长时间顺序下载时避免触发远端限流
type RandomPacer struct {
	Min time.Duration
	Max time.Duration
}

func (p RandomPacer) Pace() {
	time.Sleep(p.Min + rand.N(p.Max-p.Min))
}

// DefaultPacer 是生产默认值：0.1~0.5 秒
var DefaultPacer = RandomPacer{Min: 100 * time.Millisecond, Max: 500 * time.Millisecond}

// NopPacer 测试用：不等待
type NopPacer struct{}

func (NopPacer) Pace() {}
