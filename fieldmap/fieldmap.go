// Package fieldmap defines the semantic field types the engine knows about
// and the selector registry mapping each type to an ordered list of CSS
// selectors. The registry is immutable configuration: loaded once, read-only
// to the detection engine.
package fieldmap

import "strings"

// FieldType is an abstract field category, independent of any specific
// page's markup.
type FieldType string

// Contact and universal form fields.
const (
	Email       FieldType = "email"
	Phone       FieldType = "phone"
	Name        FieldType = "name"
	Company     FieldType = "company"
	Address     FieldType = "address"
	City        FieldType = "city"
	State       FieldType = "state"
	Zip         FieldType = "zip"
	Title       FieldType = "title"
	Website     FieldType = "website"
	Description FieldType = "description"
	Keywords    FieldType = "keywords"
	Password    FieldType = "password"
)

// Social link fields.
const (
	Facebook  FieldType = "facebook"
	Twitter   FieldType = "twitter"
	Instagram FieldType = "instagram"
	LinkedIn  FieldType = "linkedin"
	YouTube   FieldType = "youtube"
	TikTok    FieldType = "tiktok"
)

// Selection fields.
const (
	Category FieldType = "category"
	Country  FieldType = "country"
	Region   FieldType = "region"
	Locality FieldType = "locality"
	Street   FieldType = "street"
)

// Token returns the lowercase semantic name matched against a control's
// name/id/placeholder attributes during scoring.
func (ft FieldType) Token() string {
	return string(ft)
}

// Prefix returns the normalized 3-character prefix of the token, used for
// weaker attribute matches. Tokens shorter than 3 runes are returned whole.
func (ft FieldType) Prefix() string {
	t := strings.ToLower(string(ft))
	if len(t) <= 3 {
		return t
	}
	return t[:3]
}

// SelectorSet maps each field type to its ordered selector list.
type SelectorSet map[FieldType][]string

// Selectors returns the ordered selector list for ft, or nil.
func (s SelectorSet) Selectors(ft FieldType) []string {
	return s[ft]
}

// Merge returns a new SelectorSet where entries from over replace entries
// from s. Neither input is modified.
func (s SelectorSet) Merge(over SelectorSet) SelectorSet {
	out := make(SelectorSet, len(s)+len(over))
	for ft, sels := range s {
		out[ft] = sels
	}
	for ft, sels := range over {
		out[ft] = sels
	}
	return out
}

// UniversalFields lists the universal form data keys in fill order. Each key
// doubles as the FieldType it maps to and the storage key it is read from.
var UniversalFields = []FieldType{
	Email, Phone, Name, Company, Address, City, State, Zip,
	Title, Website, Description, Keywords,
}

// SocialField maps a social platform name (as stored in the profile) to its
// field type. The second return is false for unknown platforms.
func SocialField(platform string) (FieldType, bool) {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "facebook":
		return Facebook, true
	case "twitter", "x":
		return Twitter, true
	case "instagram":
		return Instagram, true
	case "linkedin":
		return LinkedIn, true
	case "youtube":
		return YouTube, true
	case "tiktok":
		return TikTok, true
	}
	return "", false
}
