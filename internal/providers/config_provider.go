package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "LOUDEAR_LOG_LEVEL")
	viper.BindEnv("charts.refreshInterval", "LOUDEAR_CHARTS_REFRESH_INTERVAL")
	viper.BindEnv("charts.weeksOnPolicy", "LOUDEAR_WEEKS_ON_POLICY")
	viper.BindEnv("persistence.saveInterval", "LOUDEAR_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "LOUDEAR_CACHE_ENABLED")
	viper.BindEnv("cache.size", "LOUDEAR_CACHE_SIZE")
	viper.BindEnv("realtime.enabled", "LOUDEAR_REALTIME_ENABLED")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "LoudearChartsDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
