package vitals

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DecodeFields builds an observation from "name=value" assignments using the JSON field
// names of Observation, e.g. "systolic=140" or "recordedAt=2024-03-01T08:00:00Z".
func DecodeFields(assignments []string) (Observation, error) {
	fields := make(map[string]interface{}, len(assignments))
	for _, assignment := range assignments {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok || name == "" {
			return Observation{}, fmt.Errorf("%w: expected name=value, got %q", ErrValidation, assignment)
		}
		fields[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	observation := Observation{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &observation,
	})
	if err != nil {
		return Observation{}, err
	}
	if err := decoder.Decode(fields); err != nil {
		return Observation{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return observation, nil
}
