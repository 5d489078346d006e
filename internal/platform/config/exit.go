package config

import (
	"fmt"
	"io"
	"os"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It is the single fatal-exit path for the command entry point.
func Exitf(format string, args ...any) {
	Fexitf(os.Stderr, 1, format, args...)
}

// Fexitf writes a formatted message to w and exits with the given code.
func Fexitf(w io.Writer, code int, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	os.Exit(code)
}
