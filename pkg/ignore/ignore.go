package ignore

import (
	"os"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Matcher 封装镜像时的跳过规则
// 注意：点开头的隐藏条目（.git 等）由 Walker 硬编码跳过，
// 这里管的是用户自定义的额外过滤（gitignore 语法）
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// 系统级默认规则，强制生效
var defaultRules = []string{
	".DS_Store", // macOS
	"Thumbs.db", // Windows
}

// NewMatcher 初始化匹配器
// ignoreFile: 可选的规则文件路径（.ghmignore）；extra: 来自配置的额外模式
func NewMatcher(ignoreFile string, extra []string) (*Matcher, error) {
	rules := append(append([]string{}, defaultRules...), extra...)

	if ignoreFile != "" {
		if _, errStat := os.Stat(ignoreFile); errStat == nil {
			// 文件内容和默认规则合并编译
			ignorer, err := gitignore.CompileIgnoreFileAndLines(ignoreFile, rules...)
			if err != nil {
				return nil, err
			}
			return &Matcher{ignorer: ignorer}, nil
		}
	}

	return &Matcher{ignorer: gitignore.CompileIgnoreLines(rules...)}, nil
}

// Matches 检查相对路径是否应该被跳过
// 返回 true 表示忽略 (Skip)，false 表示保留 (Keep)
func (m *Matcher) Matches(path string) bool {
	if m == nil || m.ignorer == nil {
		return false
	}
	return m.ignorer.MatchesPath(path)
}
