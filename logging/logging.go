// package logging provides methods for creating the logger that command-line tools pass to library code.
package logging

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"io/ioutil"
	"os"
)

// NewLogger returns a new logrus.Logger writing to 'dest', which is one of "stderr", "stdout",
// "discard" (or the empty string) or the path of a log file. Log files are rotated by size.
func NewLogger(dest string, level string) (*logrus.Logger, error) {

	lvl, err := logrus.ParseLevel(level)

	if err != nil {
		return nil, fmt.Errorf("Invalid log level '%s', %w", level, err)
	}

	var wr io.Writer

	switch dest {
	case "stderr":
		wr = os.Stderr
	case "stdout":
		wr = os.Stdout
	case "", "discard":
		wr = ioutil.Discard
	default:
		wr = &lumberjack.Logger{
			Filename:   dest,
			MaxSize:    100,
			MaxAge:     14,
			MaxBackups: 10,
		}
	}

	logger := logrus.New()
	logger.SetOutput(wr)
	logger.SetLevel(lvl)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        "2006/01/02 15:04:05",
		DisableLevelTruncation: true,
	})

	return logger, nil
}

// Discard returns a logger that drops everything. It is the default for library code that is not
// given a logger.
func Discard() *logrus.Logger {

	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)

	return logger
}
