package mirror

import "unicode/utf8"

// Kind 是内容分类结果，只决定落盘方式，不影响获取
type Kind int

const (
	Text Kind = iota
	Binary
)

func (k Kind) String() string {
	if k == Text {
		return "text"
	}
	return "binary"
}

// Classify 判定字节流是文本还是二进制
// 纯函数：相同输入永远给出相同结果
// 规则只有一条：能按 UTF-8 解码就是文本，否则是二进制
func Classify(data []byte) Kind {
	if utf8.Valid(data) {
		return Text
	}
	return Binary
}
