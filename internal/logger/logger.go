package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/MrSnakeDoc/kegfetch/internal/printer"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level   string    // "debug","info","warn","error"
	JSON    bool      // JSON output (CI)
	Color   bool      // colorize (console)
	Out     io.Writer // default os.Stdout
	LogFile string    // optional rotated JSON log, always at debug level
}

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

var (
	mu       sync.RWMutex
	zlog     *zap.SugaredLogger
	flog     *zap.SugaredLogger
	rotator  *lumberjack.Logger
	logFile  string
	out      io.Writer = os.Stdout
	p        *printer.ColorPrinter
	curLevel = zapcore.InfoLevel
	ready    atomic.Bool
)

// Configure sets up the global logger.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	configureLocked(opts)
}

func configureLocked(opts Options) {
	if opts.Out != nil {
		out = opts.Out
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.LevelKey = ""
	encCfg.CallerKey = ""
	encCfg.MessageKey = "msg"

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	}

	level := parseLevel(opts.Level)
	ws := zapcore.AddSync(writerAdapter{out})
	zlog = zap.New(zapcore.NewCore(enc, ws, level)).Sugar()

	closeFileLocked()
	logFile = opts.LogFile
	if opts.LogFile != "" {
		flog = newFileLogger(opts.LogFile)
	}

	if opts.Color && !opts.JSON {
		p = printer.NewColorPrinter()
	} else {
		p = printer.NewPlainPrinter()
	}

	ready.Store(true)
}

// newFileLogger builds a JSON logger writing to a rotated file. Failing to
// create the directory leaves file logging disabled.
func newFileLogger(path string) *zap.SugaredLogger {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "logger_fallback: %v\n", err)
		return nil
	}
	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		Compress:   true,
		LocalTime:  true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), zapcore.DebugLevel)
	return zap.New(core).Sugar()
}

func closeFileLocked() {
	if flog != nil {
		_ = flog.Sync()
		flog = nil
	}
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
}

// Close flushes and releases the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
}

// SetLevel adjusts current level at runtime ("debug","info","warn","error").
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	configureLocked(Options{Level: level, Out: out, LogFile: logFile})
}

// SetOutput replaces the logger writer (use io.Discard in tests).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	configureLocked(Options{Level: curLevel.String(), Out: w, LogFile: logFile})
}

// UseTestMode silences logs during tests.
func UseTestMode() {
	Configure(Options{
		Level: "error", // only errors
		Color: false,
		JSON:  false,
		Out:   io.Discard,
	})
}

// Out returns the current output writer (for tables).
func Out() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// ---- Public logging API (kept stable) ----

func Info(msg string, args ...interface{}) {
	emit(zapcore.InfoLevel, styleInfo, "✨ ", msg, args)
}

func Success(msg string, args ...interface{}) {
	emit(zapcore.InfoLevel, styleSuccess, "✅ ", msg, args)
}

func LogError(msg string, args ...interface{}) {
	emit(zapcore.ErrorLevel, styleError, "❌ ", msg, args)
}

func Warn(msg string, args ...interface{}) {
	emit(zapcore.WarnLevel, styleWarning, "⚠️ ", msg, args)
}

func Debug(msg string, args ...interface{}) {
	emit(zapcore.DebugLevel, styleDebug, "🛠️ ", msg, args)
}

// ---- Tables ----

func CreateTable(headers []string) *tablewriter.Table {
	mu.RLock()
	defer mu.RUnlock()
	t := tablewriter.NewTable(out)
	t.Header(headers)
	return t
}

// ---- internals ----

type writerAdapter struct{ w io.Writer }

func (wa writerAdapter) Write(p []byte) (int, error) { return wa.w.Write(p) }

type style int

const (
	styleInfo style = iota
	styleSuccess
	styleError
	styleWarning
	styleDebug
)

func (s style) sprintf(cp *printer.ColorPrinter) func(string, ...interface{}) string {
	switch s {
	case styleSuccess:
		return cp.Success
	case styleError:
		return cp.Error
	case styleWarning:
		return cp.Warning
	case styleDebug:
		return cp.Debug
	default:
		return cp.Info
	}
}

func emit(level zapcore.Level, st style, icon, msg string, args []interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	defer mu.RUnlock()

	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}

	zlog.Log(level, st.sprintf(p)("%s", icon+text))
	if flog != nil {
		flog.Log(level, text)
	}
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		curLevel = zapcore.DebugLevel
	case "info", "":
		curLevel = zapcore.InfoLevel
	case "warn":
		curLevel = zapcore.WarnLevel
	case "error":
		curLevel = zapcore.ErrorLevel
	default:
		curLevel = zapcore.InfoLevel
	}
	return curLevel
}

// ---- helpers ----

func ensureReady() bool {
	if !ready.Load() {
		return false
	}
	if p == nil || zlog == nil {
		return false
	}
	return true
}
