// Package logging builds the error log the pipeline records failures to.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewErrorLog opens path for appending and returns a logger writing one
// JSON object per failure at Error level and above.
//
// An empty path returns a no-op logger. The returned close function syncs
// and closes the file.
//
// Example:
//
//	log, closeLog, err := logging.NewErrorLog("podcast_downloader.log")
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//	log.Errorw("episode download failed", "url", u, "error", err)
func NewErrorLog(path string) (*zap.SugaredLogger, func() error, error) {
	if path == "" {
		return zap.NewNop().Sugar(), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open error log: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(f), zap.ErrorLevel)
	logger := zap.New(core)

	closeFn := func() error {
		_ = logger.Sync()
		return f.Close()
	}
	return logger.Sugar(), closeFn, nil
}
