package profile

// Storage keys recognised by the engine.
const (
	KeyCategory      = "selectedCategory"
	KeyLocation      = "selectedLocation"
	KeySocialLinks   = "socialLinks"
	KeyUniversalData = "universalFormData"
	KeyRadioRules    = "radioButtonSelections"
	KeySettings      = "settings"
)

// Location is the stored location selection.
type Location struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// Empty reports whether no part of the location is set.
func (l Location) Empty() bool {
	return l.Country == "" && l.Region == "" && l.City == "" && l.Address == ""
}

// SocialLink is one stored social profile URL.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	IsActive bool   `json:"isActive"`
}

// Settings are the engine's user-facing toggles.
type Settings struct {
	DebugMode       bool `json:"debugMode"`
	AutofillEnabled bool `json:"autofillEnabled"`
	RadioRules      bool `json:"radioRules"`
}

// DefaultSettings is what an empty profile starts with.
func DefaultSettings() Settings {
	return Settings{AutofillEnabled: true, RadioRules: true}
}
