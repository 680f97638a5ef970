package xlog

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewConfig returns the default logging configuration.
func NewConfig() Config {
	return Config{
		Level:        slog.LevelInfo,
		AddSource:    true,
		AttrReplacer: NormalizeSourceAttrReplacer(),
		StdFormat:    "text",
		StdWriter:    os.Stdout,
		Path:         "",
		MaxSize:      30,
		MaxAge:       0,
		MaxBackups:   0,
		Compress:     false,
	}
}

// Config describes how loggers built by New emit records.
type Config struct {
	// Level is the minimum level emitted, LevelInfo by default.
	Level slog.Level
	// AddSource includes the file and line the record came from.
	AddSource bool
	// AttrReplacer rewrites attributes before they are emitted,
	// NormalizeSourceAttrReplacer by default.
	AttrReplacer AttrReplacer

	// StdFormat is the console output format, "text" or "json".
	StdFormat string
	// StdWriter is the console io.Writer, os.Stdout by default.
	StdWriter io.Writer

	// Path is the log file path; empty means no file output.
	Path string
	// MaxSize is the size in MB at which the log file is rotated,
	// 30 MB by default.
	MaxSize int
	// MaxAge is how many days rotated files are kept, forever by
	// default.
	MaxAge int
	// MaxBackups is how many rotated files are kept, all by default.
	MaxBackups int
	// Compress gzips rotated files.
	Compress bool
}

// BuildHandler creates a new slog.Handler with config.
func (c *Config) BuildHandler() slog.Handler {
	opts := c.buildHandlerOptions()
	if c.StdFormat == "json" {
		writer := c.StdWriter
		if fw := c.buildFileWriter(); fw != nil {
			writer = io.MultiWriter(c.StdWriter, fw)
		}
		return NewLeveledHandlerCreator(JSONHandlerCreator)(writer, opts)
	}

	// console output stays "text"; the file side is always json
	handlers := []slog.Handler{}

	stdHandler := NewLeveledHandlerCreator(TextHandlerCreator)(c.StdWriter, opts)
	handlers = append(handlers, stdHandler)

	if fw := c.buildFileWriter(); fw != nil {
		fileHandler := NewLeveledHandlerCreator(JSONHandlerCreator)(fw, opts)
		handlers = append(handlers, fileHandler)
	}
	return MultiHandler(handlers...)
}

func (c *Config) buildFileWriter() io.Writer {
	if c.Path == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   c.Path,
		MaxSize:    c.MaxSize,
		MaxAge:     c.MaxAge,
		MaxBackups: c.MaxBackups,
		Compress:   c.Compress,
	}
}

func (c *Config) buildHandlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource:   c.AddSource,
		Level:       c.Level,
		ReplaceAttr: c.AttrReplacer,
	}
}
