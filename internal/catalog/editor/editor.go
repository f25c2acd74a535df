// Package editor models the owner's dashboard mode. Reorders are only
// accepted while Editing; in Viewing a product gesture opens its detail.
package editor

import (
	"fmt"
	"strings"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
)

type Mode string

const (
	Viewing Mode = "viewing"
	Editing Mode = "editing"
)

// ParseMode maps stored values to a Mode; anything unknown is Viewing.
func ParseMode(raw string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(raw))) == Editing {
		return Editing
	}
	return Viewing
}

type Gesture string

const (
	GestureDrag Gesture = "drag"
	GestureTap  Gesture = "tap"
)

type Action string

const (
	ActionReorder  Action = "reorder"
	ActionNavigate Action = "navigate"
	ActionNone     Action = "none"
)

// Session is one owner's edit-mode state machine. Its zero value is Viewing.
type Session struct {
	mode Mode
}

func NewSession(mode Mode) *Session {
	return &Session{mode: ParseMode(string(mode))}
}

func (s *Session) Mode() Mode {
	if s.mode == "" {
		return Viewing
	}
	return s.mode
}

// Toggle flips between Viewing and Editing. Only the owner may toggle;
// the plan plays no part.
func (s *Session) Toggle(isOwner bool) (Mode, error) {
	if !isOwner {
		return s.Mode(), fmt.Errorf("%w: only the store owner can edit the catalog", catalog.ErrForbidden)
	}
	if s.Mode() == Editing {
		s.mode = Viewing
	} else {
		s.mode = Editing
	}
	return s.mode, nil
}

// Set moves to the requested mode, a no-op when already there.
func (s *Session) Set(isOwner bool, want Mode) (Mode, error) {
	if s.Mode() == ParseMode(string(want)) {
		if !isOwner {
			return s.Mode(), fmt.Errorf("%w: only the store owner can edit the catalog", catalog.ErrForbidden)
		}
		return s.Mode(), nil
	}
	return s.Toggle(isOwner)
}

// Resolve maps a gesture on a product to what the dashboard should do.
func (s *Session) Resolve(g Gesture) Action {
	switch {
	case g == GestureDrag && s.Mode() == Editing:
		return ActionReorder
	case g == GestureTap && s.Mode() == Viewing:
		return ActionNavigate
	default:
		return ActionNone
	}
}
