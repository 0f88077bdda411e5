// Package ui holds the colored terminal output helpers used by the CLI.
package ui

import (
	"github.com/fatih/color"
)

var (
	Success = color.New(color.FgGreen).SprintFunc()
	Error   = color.New(color.FgRed).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Info    = color.New(color.FgCyan).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
)

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string {
	return status(Success, SymbolSuccess, msg)
}

// StatusError returns a red X with optional message.
func StatusError(msg string) string {
	return status(Error, SymbolError, msg)
}

// StatusWarning returns a yellow warning sign with optional message.
func StatusWarning(msg string) string {
	return status(Warning, SymbolWarning, msg)
}

// StatusSkipped returns a dimmed dash with optional message.
func StatusSkipped(msg string) string {
	return status(Dim, SymbolSkipped, msg)
}

func status(paint func(a ...interface{}) string, symbol, msg string) string {
	if msg == "" {
		return paint(symbol)
	}
	return paint(symbol) + " " + msg
}

// DisableColors turns off all color output.
func DisableColors() {
	color.NoColor = true
}

// IsColorEnabled reports whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}
