package logger

import (
	"fmt"
	"os"
	"time"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	cyan   = "\033[36m"
	green  = "\033[32m"
	yellow = "\033[33m"
	red    = "\033[31m"
	gray   = "\033[90m"
)

var colorEnabled = os.Getenv("NO_COLOR") == ""

func paint(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + reset
}

func stamp() string {
	return time.Now().Format("15:04:05")
}

func line(color, level, tag, msg string) {
	fmt.Printf("%s %s %s %s\n",
		paint(gray, stamp()),
		paint(color, fmt.Sprintf("%-5s", level)),
		paint(bold, "["+tag+"]"),
		msg)
}

// Info logs a neutral progress message under a component tag.
func Info(tag, msg string) { line(cyan, "INFO", tag, msg) }

// Success logs a completed operation.
func Success(tag, msg string) { line(green, "OK", tag, msg) }

// Warn logs a recoverable problem (stale data served, retry scheduled).
func Warn(tag, msg string) { line(yellow, "WARN", tag, msg) }

// Error logs a failed operation.
func Error(tag, msg string) { line(red, "ERROR", tag, msg) }

// Banner prints the startup header.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Println(paint(cyan, bold+"uex-hauler"+reset+paint(cyan, " :: cargo valuation & best-sell scanner")))
	fmt.Printf("%s %s\n", paint(gray, "version"), version)
}

// Section prints a visual divider before a group of log lines.
func Section(title string) {
	fmt.Printf("%s %s\n", paint(gray, "──"), paint(bold, title))
}

// Stats prints a key/value pair aligned under the current section.
func Stats(key string, value interface{}) {
	fmt.Printf("   %s %v\n", paint(gray, key+":"), value)
}

// Server logs the listen address once the HTTP server is up.
func Server(addr string) {
	Success("Server", fmt.Sprintf("Listening on http://%s", addr))
}
