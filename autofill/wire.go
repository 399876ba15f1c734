package autofill

import (
	"encoding/json"
	"fmt"

	"github.com/jawadgarzaldeen1/filling-sub001/fieldmap"
	"github.com/jawadgarzaldeen1/filling-sub001/profile"
)

// Wire names for signals as they arrive over the control surfaces.
const (
	TypeContextInvalid           = "CONTEXT_INVALID"
	TypeServicesUpdated          = "SERVICES_UPDATED"
	TypeUniversalFormDataUpdated = "UNIVERSAL_FORM_DATA_UPDATED"
	TypeCategoryUpdated          = "CATEGORY_UPDATED"
	TypeLocationUpdated          = "LOCATION_UPDATED"
	TypeSettingsUpdated          = "SETTINGS_UPDATED"
)

// DecodeSignal turns a wire (type, payload) pair into a Signal. Unknown
// types and malformed payloads return an error; the transport reports it to
// the sender and delivers nothing.
func DecodeSignal(kind string, payload json.RawMessage) (Signal, error) {
	switch kind {
	case TypeContextInvalid:
		return ContextInvalid{}, nil

	case TypeServicesUpdated:
		var selectors fieldmap.SelectorSet
		if err := json.Unmarshal(payload, &selectors); err != nil {
			return nil, fmt.Errorf("autofill: decode %s: %w", kind, err)
		}
		return ServicesUpdated{Selectors: selectors}, nil

	case TypeUniversalFormDataUpdated:
		var data map[string]string
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("autofill: decode %s: %w", kind, err)
		}
		return UniversalFormDataUpdated{Data: data}, nil

	case TypeCategoryUpdated:
		var category string
		if err := json.Unmarshal(payload, &category); err != nil {
			return nil, fmt.Errorf("autofill: decode %s: %w", kind, err)
		}
		return CategoryUpdated{Category: category}, nil

	case TypeLocationUpdated:
		var loc profile.Location
		if err := json.Unmarshal(payload, &loc); err != nil {
			return nil, fmt.Errorf("autofill: decode %s: %w", kind, err)
		}
		return LocationUpdated{Location: loc}, nil

	case TypeSettingsUpdated:
		var st profile.Settings
		if err := json.Unmarshal(payload, &st); err != nil {
			return nil, fmt.Errorf("autofill: decode %s: %w", kind, err)
		}
		return SettingsUpdated{Settings: st}, nil
	}
	return nil, fmt.Errorf("autofill: unknown signal type %q", kind)
}
