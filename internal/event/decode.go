package event

import "encoding/json"

// DecodePayload converts an event payload into T, trying a direct type
// assertion first and falling back to a JSON round-trip.
//
// Events published in-process through the MemoryBus carry the typed payload
// structs from the constructors above, so the assertion covers the hot path.
// The audit log and metrics subscribers hit the JSON fallback only when a
// payload arrives from a serialized source, such as a replayed dead-letter
// entry.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
