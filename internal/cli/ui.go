package cli

import "github.com/fatih/color"

// Styled print helpers for user-facing output; diagnostics go through the
// logging package instead.
var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

func disableColors() {
	color.NoColor = true
}
