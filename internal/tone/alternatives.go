package tone

import "fmt"

var fallbackRelated = []ToneID{Professional, Friendly}

// Alternative is a tone worth offering instead of the current one.
type Alternative struct {
	Tone        ToneID `json:"tone"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

// SuggestAlternatives lists tones related to current. It never includes
// current itself.
func SuggestAlternatives(current ToneID) []Alternative {
	cur := normalize(string(current))

	related, ok := registry.related[cur]
	if !ok {
		related = fallbackRelated
	}

	out := make([]Alternative, 0, len(related))
	for _, id := range related {
		if id == cur {
			continue
		}
		out = append(out, Alternative{
			Tone:        id,
			Description: registry.configs[id].Description,
			Reason:      fmt.Sprintf("Similar to %s but with different emphasis", current),
		})
	}

	return out
}
