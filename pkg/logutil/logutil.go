// Package logutil provides loggers whose output can be redirected together.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu  sync.Mutex
	out io.Writer = io.Discard
	// Set when out is a file opened by SetOutputFile.
	outFile *os.File
	loggers []*log.Logger
)

// GetLogger gets a logger with a prefix. Its output is discarded until
// SetOutput or SetOutputFile is called.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// w. If the old output was a file opened by SetOutputFile, it is closed.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	setOutput(w)
}

func setOutput(w io.Writer) {
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
	out = w
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger
// to the named file, which is truncated. SetOutputFile("") is equivalent to
// SetOutput(io.Discard).
func SetOutputFile(fname string) error {
	mu.Lock()
	defer mu.Unlock()
	if fname == "" {
		setOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	setOutput(file)
	outFile = file
	return nil
}
