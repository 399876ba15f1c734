package autofill

import (
	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
	"github.com/jawadgarzaldeen1/filling-sub001/profile"
)

// Signal is a change notification delivered to a running engine. The set of
// signal types is closed: each one carries exactly the payload its update
// needs, and the engine switches over the concrete types.
type Signal interface {
	signal()
}

// ContextInvalid tells the engine its host context is gone. The engine moves
// to StateInvalidated and suppresses all further operations.
type ContextInvalid struct{}

// ServicesUpdated replaces the selector registry. The candidate cache is
// cleared so the next pass re-detects with the new selectors.
type ServicesUpdated struct {
	Selectors fieldmap.SelectorSet
}

// UniversalFormDataUpdated replaces the universal field values and schedules
// a re-fill pass.
type UniversalFormDataUpdated struct {
	Data map[string]string
}

// CategoryUpdated replaces the selected category and schedules a re-fill
// pass.
type CategoryUpdated struct {
	Category string
}

// LocationUpdated replaces the selected location and schedules a re-fill
// pass.
type LocationUpdated struct {
	Location profile.Location
}

// SettingsUpdated replaces the settings. Toggling RadioRules takes effect on
// the next radio pass; disabling AutofillEnabled stops fill passes without
// invalidating the engine.
type SettingsUpdated struct {
	Settings profile.Settings
}

func (ContextInvalid) signal()           {}
func (ServicesUpdated) signal()          {}
func (UniversalFormDataUpdated) signal() {}
func (CategoryUpdated) signal()          {}
func (LocationUpdated) signal()          {}
func (SettingsUpdated) signal()          {}
