// Package output provides styled terminal output helpers using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lifehealth/dietcli/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	statusStyles = map[models.SyncStatus]lipgloss.Style{
		models.SyncConfirmed:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.SyncLocalOnly:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.SyncSuperseded: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints a plain message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// Title prints a bold heading
func Title(s string) {
	fmt.Println(titleStyle.Render(s))
}

// Subtle prints de-emphasized text
func Subtle(format string, args ...interface{}) {
	fmt.Println(subtleStyle.Render(fmt.Sprintf(format, args...)))
}

// JSON outputs data as indented JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// FormatSyncStatus renders a sync status with color
func FormatSyncStatus(s models.SyncStatus) string {
	if s == "" {
		return ""
	}
	style, ok := statusStyles[s]
	if !ok {
		return fmt.Sprintf("[%s]", s)
	}
	return style.Render(fmt.Sprintf("[%s]", s))
}

// Money renders a price cell
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Checkbox renders a completion marker
func Checkbox(done bool) string {
	if done {
		return successStyle.Render("[x]")
	}
	return "[ ]"
}

// Rule prints a horizontal divider sized to the label
func Rule(label string) {
	line := strings.Repeat("─", len(label)+2)
	fmt.Println(subtleStyle.Render(line))
}
