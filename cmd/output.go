package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	colorGreen  = color.New(color.FgGreen)
	colorYellow = color.New(color.FgYellow)
	colorBold   = color.New(color.Bold)
)

// printer groups thousands in row counts.
var printer = message.NewPrinter(language.English)

func okf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", colorGreen.Sprint("✓"), fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", colorYellow.Sprint("⚠ Warning:"), fmt.Sprintf(format, args...))
}

func count(n int) string {
	return printer.Sprintf("%d", n)
}
