package gh

import (
	"fmt"
	"regexp"
	"strings"
)

// Coordinate 唯一标识仓库在某个历史快照下的一棵子树
// 解析完成后不可变，整个遍历期间只读
type Coordinate struct {
	Owner    string
	Repo     string
	Commit   string // 完整或缩写哈希，对本系统是不透明 Token，只要求非空
	RootPath string // 相对仓库根目录，可以为空（表示仓库根）
}

// ShortCommit 返回用于目录命名的短哈希（最多 7 位）
func (c Coordinate) ShortCommit() string {
	if len(c.Commit) <= 7 {
		return c.Commit
	}
	return c.Commit[:7]
}

func (c Coordinate) String() string {
	if c.RootPath == "" {
		return fmt.Sprintf("%s/%s@%s", c.Owner, c.Repo, c.ShortCommit())
	}
	return fmt.Sprintf("%s/%s@%s:%s", c.Owner, c.Repo, c.ShortCommit(), c.RootPath)
}

// GitHub URL 的标准形态:
// https://github.com/{owner}/{repo}/tree/{commit}/{path}
// https://github.com/{owner}/{repo}/blob/{commit}/{path}
var urlPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/(?:tree|blob)/([^/]+)(?:/(.*))?$`)

// ParseURL 把浏览器地址栏里的 GitHub URL 解析为 Coordinate
// 格式不符直接报错，由调用方决定是否终止进程（Setup 阶段的致命错误）
func ParseURL(rawURL string) (Coordinate, error) {
	m := urlPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return Coordinate{}, fmt.Errorf("invalid GitHub URL %q (expected https://github.com/owner/repo/tree/commit/path)", rawURL)
	}

	coord := Coordinate{
		Owner:    m[1],
		Repo:     m[2],
		Commit:   m[3],
		RootPath: strings.Trim(m[4], "/"),
	}
	if coord.Commit == "" {
		return Coordinate{}, fmt.Errorf("missing commit in URL %q", rawURL)
	}
	return coord, nil
}
