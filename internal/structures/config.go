package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type ChartsConfig struct {
	RefreshInterval    time.Duration `yaml:"refreshInterval" validate:"required|min:1"`
	TrendingWindowDays int           `yaml:"trendingWindowDays" validate:"required|min:1"`
	HistoryWeeks       int           `yaml:"historyWeeks" validate:"required|min:1"`
	WeeksOnPolicy      string        `yaml:"weeksOnPolicy" validate:"required|in:consecutive,lifetime"`
}

type RealtimeConfig struct {
	Enabled      bool `yaml:"enabled"`
	ClientBuffer int  `yaml:"clientBuffer"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Charts      ChartsConfig   `yaml:"charts"`
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Realtime    RealtimeConfig `yaml:"realtime"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
