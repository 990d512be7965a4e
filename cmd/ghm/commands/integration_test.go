package commands

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ghmirror/pkg/gh"
	"ghmirror/pkg/mirror"
	"ghmirror/pkg/sink/disk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 端到端走一遍真实链路：HTTP(httptest) -> 通道链 -> 分类 -> 磁盘
// 远端树: src/{a.txt, sub/{b.bin, .hidden}}
//   - a.txt  走主通道 (base64 信封)，合法 UTF-8
//   - b.bin  主通道返回 encoding=none，落到 raw 兜底，非 UTF-8
func TestMirror_EndToEnd(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/repos/acme/widgets/contents/src":
			io.WriteString(w, `[
				{"name":"a.txt","path":"src/a.txt","type":"file"},
				{"name":"sub","path":"src/sub","type":"dir"},
				{"name":".git","path":"src/.git","type":"dir"}
			]`)
		case "/repos/acme/widgets/contents/src/sub":
			io.WriteString(w, `[
				{"name":"b.bin","path":"src/sub/b.bin","type":"file"},
				{"name":".hidden","path":"src/sub/.hidden","type":"file"}
			]`)
		case "/repos/acme/widgets/contents/src/a.txt":
			io.WriteString(w, `{"type":"file","name":"a.txt","path":"src/a.txt","encoding":"base64","content":"aGVsbG8gd29ybGQ="}`)
		case "/repos/acme/widgets/contents/src/sub/b.bin":
			// 大文件形态：主通道拿不到内容
			io.WriteString(w, `{"type":"file","name":"b.bin","path":"src/sub/b.bin","encoding":"none","content":""}`)
		default:
			t.Errorf("unexpected API request: %s", r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer api.Close()

	raw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/acme/widgets/abcdef1/src/sub/b.bin", r.URL.Path)
		w.Write([]byte{0xff, 0xfe, 0x01})
	}))
	defer raw.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := gh.NewClient(gh.Config{
		Credential: gh.Credential{Username: "acme", Token: "secret"},
		APIBaseURL: api.URL,
		RawBaseURL: raw.URL,
		Logger:     logger,
	})
	require.NoError(t, err)

	outRoot := filepath.Join(t.TempDir(), "widgets_abcdef1")
	out, err := disk.NewSink(outRoot)
	require.NoError(t, err)

	coord := gh.Coordinate{Owner: "acme", Repo: "widgets", Commit: "abcdef1", RootPath: "src"}
	walker := mirror.NewWalker(client, gh.NewFetcher(client), out, nil, mirror.NopPacer{}, logger)

	stats := walker.Walk(context.Background(), coord, coord.RootPath)

	assert.Equal(t, 2, stats.Downloaded)
	assert.Equal(t, 0, stats.Failed)

	// 文本按解码后的内容写入
	got, err := os.ReadFile(filepath.Join(outRoot, "src", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))

	// 二进制原样落盘（来自 raw 兜底通道）
	got, err = os.ReadFile(filepath.Join(outRoot, "src", "sub", "b.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe, 0x01}, got)

	// 隐藏条目在任何层级都不出现在输出里
	_, err = os.Stat(filepath.Join(outRoot, "src", "sub", ".hidden"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outRoot, "src", ".git"))
	assert.True(t, os.IsNotExist(err))
}

// 幂等性：同一坐标跑两遍，磁盘内容一致（覆盖写，不重复）
func TestMirror_Idempotent(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/repos/acme/widgets/contents/":
			io.WriteString(w, `[{"name":"a.txt","path":"a.txt","type":"file"}]`)
		case "/repos/acme/widgets/contents/a.txt":
			io.WriteString(w, `{"type":"file","name":"a.txt","path":"a.txt","encoding":"base64","content":"b25jZQ=="}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer api.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := gh.NewClient(gh.Config{
		Credential: gh.Credential{Username: "acme", Token: "secret"},
		APIBaseURL: api.URL,
		RawBaseURL: api.URL,
		Logger:     logger,
	})
	require.NoError(t, err)

	outRoot := t.TempDir()
	out, err := disk.NewSink(outRoot)
	require.NoError(t, err)

	coord := gh.Coordinate{Owner: "acme", Repo: "widgets", Commit: "abcdef1"}
	walker := mirror.NewWalker(client, gh.NewFetcher(client), out, nil, mirror.NopPacer{}, logger)

	first := walker.Walk(context.Background(), coord, "")
	second := walker.Walk(context.Background(), coord, "")

	assert.Equal(t, 1, first.Downloaded)
	assert.Equal(t, 1, second.Downloaded)

	entries, err := os.ReadDir(outRoot)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no duplication on re-run")

	got, err := os.ReadFile(filepath.Join(outRoot, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "once", string(got))
}
