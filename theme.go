package wowo

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg   int // User message accent
	Assistant int // Assistant name label
	Error     int // Error messages
	Success   int // Success indicators
	Muted     int // Status bar, placeholders, untitled sessions
	Accent    int // Headings, links, active sidebar entry
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:   4,
		Assistant: 2,
		Error:     1,
		Success:   2,
		Muted:     8,
		Accent:    5,
	}
}
