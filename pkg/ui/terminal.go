package ui

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔═══════════════════════════════════════════════╗
    ║   ██████╗ ██╗  ██╗██████╗  ██████╗ ████████╗  ║
    ║  ██╔════╝ ██║  ██║██╔══██╗██╔═══██╗╚══██╔══╝  ║
    ║  ██║  ███╗███████║██████╔╝██║   ██║   ██║     ║
    ║  ██║   ██║██╔══██║██╔══██╗██║   ██║   ██║     ║
    ║  ╚██████╔╝██║  ██║██████╔╝╚██████╔╝   ██║     ║
    ║   ╚═════╝ ╚═╝  ╚═╝╚═════╝  ╚═════╝    ╚═╝     ║
    ║        GITHUB SOCIAL GRAPH AUTOMATION         ║
    ╚═══════════════════════════════════════════════╝
`

// renderer decides the color profile from stdout: plain text when it is not
// a terminal or NO_COLOR is set
var renderer = lipgloss.NewRenderer(os.Stdout)

var (
	cyanStyle    = renderer.NewStyle().Foreground(lipgloss.Color("6"))
	yellowStyle  = renderer.NewStyle().Foreground(lipgloss.Color("3"))
	redStyle     = renderer.NewStyle().Foreground(lipgloss.Color("1"))
	greenStyle   = renderer.NewStyle().Foreground(lipgloss.Color("2"))
	magentaStyle = renderer.NewStyle().Foreground(lipgloss.Color("5"))
	dimStyle     = renderer.NewStyle().Faint(true)

	logoStyle = renderer.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
)

// Color functions for terminal output
var (
	Cyan    = colorize(cyanStyle)
	Yellow  = colorize(yellowStyle)
	Red     = colorize(redStyle)
	Green   = colorize(greenStyle)
	Magenta = colorize(magentaStyle)
	Dim     = colorize(dimStyle)
)

var (
	quiet   atomic.Bool
	noColor atomic.Bool
)

// SetColorEnabled turns colors on or off. Enabling never forces color onto
// output the renderer already treats as plain.
func SetColorEnabled(enabled bool) {
	noColor.Store(!enabled)
}

// SetQuietMode suppresses everything but errors
func SetQuietMode(q bool) {
	quiet.Store(q)
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	return quiet.Load()
}

func colorize(style lipgloss.Style) func(string) string {
	return func(text string) string {
		if noColor.Load() {
			return text
		}
		return style.Render(text)
	}
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if IsQuietMode() {
		return
	}
	fmt.Println(colorize(logoStyle)(ASCIILogo))
}

// PrintError prints an error message in red. Errors ignore quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if IsQuietMode() {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	if IsQuietMode() {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if IsQuietMode() {
		return
	}
	fmt.Println(Magenta(msg))
}
