package logging

import (
	"os"

	"go.uber.org/zap/zapcore"
)

// NewMultiCore builds the tee of console and file cores the logger runs on.
// The file side is always JSON so assessment history can be post-processed;
// the console side is human-readable in development and JSON otherwise.
// The file is opened in append mode and created if missing.
func NewMultiCore(level zapcore.Level, filePath string, isDev bool) (zapcore.Core, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return NewMultiCoreWithWriters(level, zapcore.AddSync(os.Stdout), zapcore.AddSync(file), isDev), nil
}

// NewMultiCoreWithWriters is NewMultiCore over caller-supplied writers.
// Tests hand in buffers; NewLoggerWithConfig hands in the rotating file
// writer.
func NewMultiCoreWithWriters(level zapcore.Level, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(NewEncoderConfig()),
		fileWriter,
		level,
	)

	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}
	consoleCore := zapcore.NewCore(consoleEncoder, consoleWriter, level)

	return zapcore.NewTee(consoleCore, fileCore)
}
