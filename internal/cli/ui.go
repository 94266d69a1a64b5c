package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal colors, named by what they mark.
var (
	accent  = lipgloss.Color("36")
	okay    = lipgloss.Color("35")
	muted   = lipgloss.Color("245")
	faint   = lipgloss.Color("240")
	bright  = lipgloss.Color("255")
	command = lipgloss.Color("75")
)

var (
	// StyleTitle renders section headings such as an object name.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	// StyleHighlight renders the subject of a status line.
	StyleHighlight = lipgloss.NewStyle().Foreground(accent)
	// StyleDim renders counters and hints.
	StyleDim = lipgloss.NewStyle().Foreground(faint)
	// StyleValue renders paths and settings.
	StyleValue = lipgloss.NewStyle().Foreground(bright)

	styleSpinnerFrame = lipgloss.NewStyle().Foreground(accent)
	styleCommand      = lipgloss.NewStyle().Foreground(command)
	styleSettingName  = lipgloss.NewStyle().Foreground(muted).Width(14)

	markDone = lipgloss.NewStyle().Foreground(okay).Render("✓")
	markNote = lipgloss.NewStyle().Foreground(muted).Render("›")
)

// statSep separates the counters of a generated object.
const statSep = " · "

// stdout receives everything the commands print besides logs and the spinner.
var stdout io.Writer = os.Stdout

// emit prints parts joined by single spaces as one line.
func emit(parts ...string) {
	fmt.Fprintln(stdout, strings.Join(parts, " "))
}

func printSuccess(format string, args ...any) {
	emit(markDone, fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	emit(markNote, fmt.Sprintf(format, args...))
}

// printTitle starts a section, one per object or settings group.
func printTitle(title string) {
	emit(StyleTitle.Render(title))
}

// printFile reports a file written by generate or render.
func printFile(path string) {
	emit(" ", StyleDim.Render("→"), StyleValue.Render(path))
}

// printKeyValue prints one setting with its name padded to a fixed column.
func printKeyValue(key, value string) {
	emit(styleSettingName.Render(key), StyleValue.Render(value))
}

// printStats prints the counters of a generated object on one indented line.
func printStats(parts ...string) {
	emit(" ", StyleDim.Render(strings.Join(parts, statSep)))
}

// printNextStep suggests the command to run after this one.
func printNextStep(description, cmd string) {
	emit(StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
