package model

import (
	"errors"
	"fmt"
)

// ErrInvalidPreference is returned for an unknown theme, layout or sidebar state.
var ErrInvalidPreference = errors.New("invalid preference")

// Session is the signed-in user and the role they picked.
type Session struct {
	User string `json:"user"`
	Role Role   `json:"role"`
}

// Preferences holds the dashboard display settings.
type Preferences struct {
	Theme   string `json:"theme"`
	Layout  string `json:"layout"`
	Sidebar string `json:"sidebar"`
}

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	LayoutCompact     = "compact"
	LayoutComfortable = "comfortable"

	SidebarExpanded  = "expanded"
	SidebarCollapsed = "collapsed"
)

// DefaultPreferences is used for any setting that was never saved.
var DefaultPreferences = Preferences{
	Theme:   ThemeLight,
	Layout:  LayoutComfortable,
	Sidebar: SidebarExpanded,
}

// ValidateTheme rejects anything but light, dark and system.
func ValidateTheme(theme string) error {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return nil
	}
	return fmt.Errorf("%w: unknown theme %q", ErrInvalidPreference, theme)
}

// ValidateLayout rejects anything but compact and comfortable.
func ValidateLayout(layout string) error {
	switch layout {
	case LayoutCompact, LayoutComfortable:
		return nil
	}
	return fmt.Errorf("%w: unknown layout %q", ErrInvalidPreference, layout)
}

// ValidateSidebar rejects anything but expanded and collapsed.
func ValidateSidebar(sidebar string) error {
	switch sidebar {
	case SidebarExpanded, SidebarCollapsed:
		return nil
	}
	return fmt.Errorf("%w: unknown sidebar state %q", ErrInvalidPreference, sidebar)
}
