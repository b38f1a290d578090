package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const FormatPretty = "pretty"

// Logger is a zerolog logger bound to one service.
type Logger struct {
	logger  zerolog.Logger
	service string
}

// Init builds the global logger from cfg and routes zerolog's package
// logger through it.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	globalLogger = New(&cfg, cfg.ServiceName)
	log.Logger = globalLogger.logger
}

// New builds a logger. An unknown level falls back to info.
func New(cfg *Config, serviceName string) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var zc zerolog.Context
	if isConsole(cfg.Format) {
		zc = zerolog.New(consoleWriter(cfg.writer(), serviceName, cfg.NoColor)).With().Timestamp()
	} else {
		zc = zerolog.New(cfg.writer()).With()
		if serviceName != "" {
			zc = zc.Str(FieldService, serviceName)
		}
		if cfg.Timestamp {
			zc = zc.Timestamp()
		}
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{logger: zc.Logger().Level(level), service: serviceName}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

type contextKey struct{}

// ContextWithRunID stores a run identifier for WithContext to pick up.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, contextKey{}, runID)
}

// RunIDFromContext returns the run identifier stored in ctx, if any.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// WithContext adds the run ID and the active trace and span IDs in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.logger.With()
	if id := RunIDFromContext(ctx); id != "" {
		zc = zc.Str(FieldRunID, id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		zc = zc.Str(FieldTraceID, sc.TraceID().String()).Str(FieldSpanID, sc.SpanID().String())
	}
	return l.derive(zc)
}

// WithComponent tags every entry with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(l.logger.With().Str(FieldComponent, name))
}

func (l *Logger) derive(zc zerolog.Context) *Logger {
	return &Logger{logger: zc.Logger(), service: l.service}
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level zerolog.Level) bool {
	return l.logger.GetLevel() <= level && zerolog.GlobalLevel() <= level
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { emit(l.logger.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { emit(l.logger.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { emit(l.logger.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { emit(l.logger.Error(), msg, fields) }

// emit tolerates the nil event zerolog returns for a disabled level.
func emit(e *zerolog.Event, msg string, fields []map[string]any) {
	if e == nil {
		return
	}
	for _, m := range fields {
		e.Fields(m)
	}
	e.Msg(msg)
}

var globalLogger *Logger

// SetGlobalLogger replaces the logger behind the package functions.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the global logger, building a console logger
// with default settings the first time if Init was never called.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		var cfg Config
		cfg.ApplyDefaults()
		globalLogger = New(&cfg, "")
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]any) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]any)  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]any)  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]any) { GetGlobalLogger().Error(msg, fields...) }

func WithContext(ctx context.Context) *Logger { return GetGlobalLogger().WithContext(ctx) }
func WithComponent(name string) *Logger       { return GetGlobalLogger().WithComponent(name) }

func isConsole(format string) bool {
	switch strings.ToLower(format) {
	case "console", "text", FormatPretty:
		return true
	}
	return false
}

// outputWriter maps an output name to a stream. Stdout carries the TSV,
// so anything but an explicit "stdout" goes to stderr.
func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

// levelStyle is the short tag and ANSI color of each level.
var levelStyle = map[string][2]string{
	"debug": {"DBG", "36"},
	"info":  {"INF", "32"},
	"warn":  {"WRN", "33"},
	"error": {"ERR", "31"},
	"fatal": {"FTL", "35"},
}

func paint(s, color string, noColor bool) string {
	if noColor {
		return s
	}
	return "\033[" + color + "m" + s + "\033[0m"
}

// consoleWriter renders "15:04:05 [KAN][INF] message key:value", where KAN
// is the first three letters of the service name.
func consoleWriter(out io.Writer, serviceName string, noColor bool) zerolog.ConsoleWriter {
	var tag string
	if len(serviceName) >= 3 {
		tag = paint("["+strings.ToUpper(serviceName[:3])+"]", "34", noColor)
	}
	text := func(i any) string {
		if i == nil {
			return ""
		}
		return fmt.Sprint(i)
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i any) string {
			lvl := text(i)
			style, ok := levelStyle[lvl]
			if !ok {
				return tag + "[" + strings.ToUpper(lvl) + "]"
			}
			return tag + paint("["+style[0]+"]", style[1], noColor)
		},
		FormatMessage:    text,
		FormatFieldName:  func(i any) string { return text(i) + ":" },
		FormatFieldValue: text,
	}
}
