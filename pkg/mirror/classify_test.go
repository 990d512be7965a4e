package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Kind
	}{
		{"ascii", []byte("hello world\n"), Text},
		{"utf8 multibyte", []byte("你好，世界"), Text},
		{"empty is text", []byte{}, Text},
		{"invalid continuation byte", []byte{0xff, 0xfe, 0x00}, Binary},
		{"truncated rune", []byte{0xe4, 0xbd}, Binary},
		{"png header", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, Binary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.data))
			// 确定性：同样的输入再判一次结果不变
			assert.Equal(t, tt.want, Classify(tt.data))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "text", Text.String())
	assert.Equal(t, "binary", Binary.String())
}
