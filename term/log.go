package term

import (
	"fmt"
	"os"
)

const (
	RED     = "\033[91m"
	GREEN   = "\033[32m"
	YELLOW  = "\033[93m"
	BLUE    = "\033[94m"
	MAGENTA = "\033[95m"
	CYAN    = "\033[96m"
	NOCOLOR = "\033[0m"
)

const (
	warn    = YELLOW + "[WAR]" + NOCOLOR + " "
	errTag  = RED + "[ERR]" + NOCOLOR + " "
	info    = CYAN + "[INF]" + NOCOLOR + " "
	success = GREEN + "[SUC]" + NOCOLOR + " "
	debug   = MAGENTA + "[DEBUG]" + NOCOLOR + " "
)

func printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

func Warn(format string, args ...any) {
	printf(warn+format, args...)
}

func Yellow(format string, args ...any) {
	printf(YELLOW+format+NOCOLOR, args...)
}

func Info(format string, args ...any) {
	printf(info+format, args...)
}

func Cyan(format string, args ...any) {
	printf(CYAN+format+NOCOLOR, args...)
}

func Err(format string, args ...any) {
	printf(errTag+format, args...)
}

func Red(format string, args ...any) {
	printf(RED+format+NOCOLOR, args...)
}

func Suc(format string, args ...any) {
	printf(success+format, args...)
}

func Green(format string, args ...any) {
	printf(GREEN+format+NOCOLOR, args...)
}

// Error prints a red error message; unless noPanic is passed as true, it
// also panics with the message (used at CLI startup before any chunk is
// running, where a panic is the simplest way to abort with a stack dump).
func Error(s string, noPanic ...bool) {
	Red(s)
	if len(noPanic) == 0 || !noPanic[0] {
		panic(s)
	}
}
