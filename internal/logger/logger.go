package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 로깅 설정
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // text, json
	File       string // 비어 있으면 stdout 만
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultConfig stdout 텍스트 로그
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "text",
		MaxSizeMB:  50,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

var (
	mu  sync.RWMutex
	std = newLogger(DefaultConfig(), os.Stdout)
)

// Init 전역 로거를 설정한다. 파일이 지정되면 lumberjack 으로 회전하며 stdout 에도 같이 쓴다.
func Init(cfg Config) error {
	out := io.Writer(os.Stdout)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}

	l := newLogger(cfg, out)
	mu.Lock()
	std = l
	mu.Unlock()

	l.WithFields(logrus.Fields{
		"level":  l.GetLevel().String(),
		"format": cfg.Format,
		"file":   cfg.File,
	}).Debug("logger initialized")
	return nil
}

func newLogger(cfg Config, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}
	return l
}

// L 전역 로거
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// SetOutput 출력 대상 교체 (테스트용)
func SetOutput(w io.Writer) {
	L().SetOutput(w)
}

// WithFields 필드가 붙은 엔트리
func WithFields(fields logrus.Fields) *logrus.Entry {
	return L().WithFields(fields)
}

// GinMiddleware 요청마다 method/path/status/latency 를 남긴다
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}
