package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
//
// 优先级（低到高）：默认值 < config.yaml < .env < 环境变量 < 命令行参数
func Load(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：当前目录 -> ./.ghm -> ~/.ghm
		viper.AddConfigPath(".")
		viper.AddConfigPath(".ghm")
		viper.AddConfigPath(filepath.Join(home, ".ghm"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// 环境变量 (GHM_GITHUB_TOKEN 等)
	viper.SetEnvPrefix("GHM")
	viper.AutomaticEnv()

	// 裸变量名也接受（.env 里常见的 GITHUB_USERNAME / GITHUB_TOKEN）
	_ = viper.BindEnv("github.username", "GHM_GITHUB_USERNAME", "GITHUB_USERNAME")
	_ = viper.BindEnv("github.token", "GHM_GITHUB_TOKEN", "GITHUB_TOKEN")

	// .env 文件：存在则把里面的键导出成进程环境变量
	// 已有的环境变量不覆盖
	if err := loadDotEnv(".env"); err != nil {
		return err
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// 没有配置文件不算错，可能全靠环境变量
		} else {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	}

	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil // 没有 .env，跳过
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, key := range env.AllKeys() {
		upper := toEnvKey(key)
		if _, exists := os.LookupEnv(upper); !exists {
			_ = os.Setenv(upper, env.GetString(key))
		}
	}
	return nil
}

// toEnvKey 把 viper 归一化后的键名还原成 .env 里的大写形式
// viper 会把 "GITHUB_TOKEN" 读成 "github_token"
func toEnvKey(key string) string {
	out := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func setDefaults() {
	// 输出
	viper.SetDefault("output.dir", "github_download")
	viper.SetDefault("output.type", "disk")

	// S3 输出端（output.type = s3 时生效）
	viper.SetDefault("s3.region", "us-east-1")

	// 内容缓存（设置 cache.redis_url 后启用）
	viper.SetDefault("cache.ttl", "24h")

	// 运行历史
	home, _ := os.UserHomeDir()
	viper.SetDefault("history.path", filepath.Join(home, ".ghm", "history.db"))

	// 日志
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")

	// 跳过规则
	viper.SetDefault("mirror.ignore_file", ".ghmignore")
}
