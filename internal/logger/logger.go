package logger

import (
	"io"
	"os"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New 建立 process logger, 同時設定為 zerolog 全域 logger
// 開發環境使用 console 格式, 其餘輸出 JSON
func New(level string, env constants.ENV) *zerolog.Logger {
	return NewWithWriter(level, env, os.Stdout)
}

func NewWithWriter(level string, env constants.ENV, w io.Writer) *zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if env == constants.Debug || env == constants.Dev {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "storefront").
		Logger()

	log.Logger = logger
	return &logger
}
