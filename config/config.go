package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// LoadEnv 读取工作目录下的 .env；没有文件时直接使用系统环境变量
func LoadEnv() {
	wd, _ := os.Getwd()
	if err := godotenv.Load(".env"); err != nil {
		log.Info().Str("dir", wd).Msg("no .env file found, using system environment variables")
		return
	}
	log.Info().Str("dir", wd).Msg("loaded environment variables from .env")
}

// Get 环境变量，空值时返回默认值
func Get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
