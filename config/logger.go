package config

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerConf struct {
	IsOutputConsole bool
	Level           zerolog.Level

	Filename   string
	MaxSize    *int
	MaxBackups *int
	MaxAge     *int
	IsCompress *bool
}

// NewLogger builds a logger writing to the console, a rotating .log file, or
// both. A nil conf logs to the console at info level.
func NewLogger(conf *LoggerConf) zerolog.Logger {
	return newLogger(conf, os.Stdout)
}

func newLogger(conf *LoggerConf, console io.Writer) zerolog.Logger {
	writers := []io.Writer{}
	level := zerolog.InfoLevel

	if conf != nil {
		level = conf.Level

		if conf.IsOutputConsole {
			writers = append(writers, zerolog.ConsoleWriter{Out: console})
		}

		if strings.HasSuffix(conf.Filename, ".log") {
			writers = append(writers, &lumberjack.Logger{
				Filename:   conf.Filename,
				MaxSize:    getOrDefault(conf.MaxSize, 4),
				MaxBackups: getOrDefault(conf.MaxBackups, 3),
				MaxAge:     getOrDefault(conf.MaxAge, 14),
				Compress:   getOrDefault(conf.IsCompress, true),
			})
		}
	} else {
		writers = append(writers, zerolog.ConsoleWriter{Out: console})
	}

	if len(writers) == 0 {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().
		Logger()
}

// LoadLoggerConfFromEnv reads STEREO_LOG_* variables.
func LoadLoggerConfFromEnv() (*LoggerConf, error) {
	conf := &LoggerConf{
		IsOutputConsole: true,
		Level:           zerolog.InfoLevel,
	}

	if text := os.Getenv("STEREO_LOG_LEVEL"); text != "" {
		level, err := zerolog.ParseLevel(text)
		if err != nil {
			return nil, err
		}
		conf.Level = level
	}

	filename := os.Getenv("STEREO_LOG_FILENAME")
	if strings.HasSuffix(filename, ".log") {
		conf.Filename = filename
	}

	if err := GetEnvBool("STEREO_LOG_IS_OUTPUT_CONSOLE", func(v bool) {
		conf.IsOutputConsole = v
	}); err != nil {
		return nil, err
	}

	if err := GetEnvInt("STEREO_LOG_MAX_SIZE", func(v int) {
		conf.MaxSize = &v
	}); err != nil {
		return nil, err
	}
	if err := GetEnvInt("STEREO_LOG_MAX_BACKUPS", func(v int) {
		conf.MaxBackups = &v
	}); err != nil {
		return nil, err
	}
	if err := GetEnvInt("STEREO_LOG_MAX_AGE", func(v int) {
		conf.MaxAge = &v
	}); err != nil {
		return nil, err
	}
	if err := GetEnvBool("STEREO_LOG_IS_COMPRESS", func(v bool) {
		conf.IsCompress = &v
	}); err != nil {
		return nil, err
	}

	return conf, nil
}

func getOrDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
