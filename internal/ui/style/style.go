// Package style provides shared styling primitives for build output.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Line prefixes and markers of the buildpack output convention.
const (
	Arrow         = "-----> "
	Indent        = "       "
	WarningMarker = " <----------- Warning!"
	ErrorMarker   = " <----------- Error!"
)
