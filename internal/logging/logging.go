package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// FileOptions configures the optional rotated log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Options selects formatter, level and outputs.
type Options struct {
	Env   string
	Level string
	File  FileOptions
}

// New builds a logger. local gets colored text at debug, dev and prod get
// JSON. An explicit Level overrides the env default.
func New(opts Options) (*log.Logger, io.Closer, error) {
	logger := log.New()

	level := log.InfoLevel
	switch opts.Env {
	case EnvLocal:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		level = log.DebugLevel
	case EnvDev:
		logger.SetFormatter(&log.JSONFormatter{})
		level = log.DebugLevel
	default:
		logger.SetFormatter(&log.JSONFormatter{})
	}
	if opts.Level != "" {
		l, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, err
		}
		level = l
	}
	logger.SetLevel(level)

	var closer io.Closer = nopCloser{}
	out := io.Writer(os.Stdout)
	if opts.File.Path != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
		}
		out = io.MultiWriter(os.Stdout, lj)
		closer = lj
	}
	logger.SetOutput(out)
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
