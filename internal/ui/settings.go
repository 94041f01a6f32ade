package ui

import (
	"fyne.io/fyne/v2"
)

// avatarFilterKey is the preferences key of the avatar filter flag.
const avatarFilterKey = "avatar_filter"

// PrefSettings stores widget settings in fyne preferences, so they survive
// restarts.
type PrefSettings struct {
	prefs fyne.Preferences
}

// NewPrefSettings wraps prefs.
func NewPrefSettings(prefs fyne.Preferences) *PrefSettings {
	return &PrefSettings{prefs: prefs}
}

// AvatarFilter returns the saved flag, false if never set.
func (s *PrefSettings) AvatarFilter() bool {
	return s.prefs.BoolWithFallback(avatarFilterKey, false)
}

// SetAvatarFilter saves the flag.
func (s *PrefSettings) SetAvatarFilter(on bool) {
	s.prefs.SetBool(avatarFilterKey, on)
}
