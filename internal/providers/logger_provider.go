package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

type TypeEnum uint8

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypeRealtime
)

// Logger is the channeled logging contract used across the daemon. Each
// TypeEnum routes to its own log file so access noise never drowns
// application events.
type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

type LogProvider struct {
	loggers map[TypeEnum]*zerolog.Logger
	files   []*os.File
}

var channelFiles = map[TypeEnum]string{
	TypeApp:      "app.log",
	TypeGet:      "access.log",
	TypePost:     "access.log",
	TypeRealtime: "realtime.log",
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	lp := &LogProvider{loggers: make(map[TypeEnum]*zerolog.Logger)}
	opened := make(map[string]*os.File)

	for channel, name := range channelFiles {
		file, ok := opened[name]
		if !ok {
			file, err = os.OpenFile(
				filepath.Join(conf.Logger.Dir, name),
				os.O_CREATE|os.O_WRONLY|os.O_APPEND,
				os.FileMode(conf.Logger.Mode),
			)
			if err != nil {
				lp.Close()
				return nil, fmt.Errorf("unable to open log file %s: %w", name, err)
			}
			opened[name] = file
			lp.files = append(lp.files, file)
		}

		var out io.Writer = file
		if conf.Debug {
			out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
		lp.loggers[channel] = &logger
	}

	return lp, nil
}

func (lp *LogProvider) log(t TypeEnum) *zerolog.Logger {
	if logger, ok := lp.loggers[t]; ok {
		return logger
	}
	return lp.loggers[TypeApp]
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Error().Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Warn().Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Info().Msgf(format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Debug().Msgf(format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t).Fatal().Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	for _, file := range lp.files {
		_ = file.Close()
	}
}
