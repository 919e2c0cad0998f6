package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// config.yaml中`feeds:`下的数据源名称
const (
	FeedOdds      = "odds"
	FeedAPISports = "apisports"
)

// Config 全局配置（对应config/config.yaml）
type Config struct {
	Server  ServerConfig          `mapstructure:"server"`
	Refresh RefreshConfig         `mapstructure:"refresh"`
	Feeds   map[string]FeedConfig `mapstructure:"feeds"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin模式：debug/release/test
}

// RefreshConfig 看板刷新配置
type RefreshConfig struct {
	Interval     time.Duration `mapstructure:"interval"`      // 看板刷新周期
	StatsTimeout time.Duration `mapstructure:"stats_timeout"` // 单次按需拉取统计的超时
}

// FeedConfig 单个上游数据源配置
type FeedConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Timeout    int    `mapstructure:"timeout"` // 秒
	Proxy      string `mapstructure:"proxy"`
	AuthKey    string `mapstructure:"auth_key"`
	Sport      string `mapstructure:"sport"`       // 赔率源运动key，如basketball_nba
	Regions    string `mapstructure:"regions"`     // 赔率源
	Markets    string `mapstructure:"markets"`     // 赔率源
	OddsFormat string `mapstructure:"odds_format"` // 赔率源
	DateFormat string `mapstructure:"date_format"` // 赔率源
	League     string `mapstructure:"league"`      // api-sports联赛id
	Season     string `mapstructure:"season"`      // api-sports赛季
}

// LoadConfig 读取config/config.yaml（可缺省），密钥从环境变量读取（先加载.env）
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Feeds == nil {
		cfg.Feeds = make(map[string]FeedConfig)
	}
	overrideFromEnv(&cfg)
	if cfg.Refresh.Interval <= 0 {
		return nil, fmt.Errorf("refresh.interval must be positive, got %s", cfg.Refresh.Interval)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("refresh.interval", 30*time.Second)
	v.SetDefault("refresh.stats_timeout", 10*time.Second)

	v.SetDefault("feeds.odds.base_url", "https://api.the-odds-api.com")
	v.SetDefault("feeds.odds.timeout", 10)
	v.SetDefault("feeds.odds.sport", "basketball_nba")
	v.SetDefault("feeds.odds.regions", "us")
	v.SetDefault("feeds.odds.markets", "h2h")
	v.SetDefault("feeds.odds.odds_format", "american")
	v.SetDefault("feeds.odds.date_format", "iso")

	v.SetDefault("feeds.apisports.base_url", "https://v1.basketball.api-sports.io")
	v.SetDefault("feeds.apisports.timeout", 10)
	v.SetDefault("feeds.apisports.league", "12")
	v.SetDefault("feeds.apisports.season", "2024-2025")
}

// overrideFromEnv 密钥及部署相关配置以环境变量为准
func overrideFromEnv(cfg *Config) {
	odds := cfg.Feeds[FeedOdds]
	if v := os.Getenv("ODDS_API_KEY"); v != "" {
		odds.AuthKey = v
	}
	if v := os.Getenv("ODDS_PROXY"); v != "" {
		odds.Proxy = v
	}
	cfg.Feeds[FeedOdds] = odds

	sports := cfg.Feeds[FeedAPISports]
	if v := os.Getenv("API_SPORTS_KEY"); v != "" {
		sports.AuthKey = v
	}
	if v := os.Getenv("API_SPORTS_BASE_URL"); v != "" {
		sports.BaseURL = v
	}
	if v := os.Getenv("API_SPORTS_SEASON"); v != "" {
		sports.Season = v
	}
	if v := os.Getenv("API_SPORTS_LEAGUE"); v != "" {
		sports.League = v
	}
	if v := os.Getenv("API_SPORTS_PROXY"); v != "" {
		sports.Proxy = v
	}
	cfg.Feeds[FeedAPISports] = sports

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Feed 获取指定数据源配置（不存在时返回零值）
func (c *Config) Feed(name string) FeedConfig {
	return c.Feeds[name]
}
