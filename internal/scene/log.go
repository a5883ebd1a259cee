package scene

import (
	"io"
	"log"
)

var logger = log.New(io.Discard, "[scene] ", 0)

// SetLogger replaces the package logger. Passing nil silences it.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}
