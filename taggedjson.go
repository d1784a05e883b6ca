package hollowmere

import "encoding/json"

// TaggedJSON is a single-key JSON object wire value: { "<variantKey>":
// <payload> } (spec.md §6.3). It is the envelope every plugin action,
// deserializer, and persisted event is carried in so a PluginHost can
// try each plugin's sources in turn without knowing the concrete Go
// type behind the key ahead of time.
type TaggedJSON struct {
	Key     string
	Payload json.RawMessage
}

// EncodeTagged marshals payload and wraps it under key.
func EncodeTagged(key string, payload any) (TaggedJSON, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return TaggedJSON{}, &TaggedJSONError{Kind: "json", Cause: err}
	}
	return TaggedJSON{Key: key, Payload: raw}, nil
}

// MarshalJSON renders the one-key envelope.
func (t TaggedJSON) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]json.RawMessage{t.Key: t.Payload})
}

// UnmarshalJSON parses a one-key envelope. More than one key, or zero
// keys, is a malformed-tagged-JSON error.
func (t *TaggedJSON) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return &TaggedJSONError{Kind: "json", Cause: err}
	}
	if len(m) != 1 {
		return &TaggedJSONError{Kind: "malformed", Cause: ErrEvaluationFailed}
	}
	for k, v := range m {
		t.Key = k
		t.Payload = v
	}
	return nil
}

// Decode unmarshals the payload into v.
func (t TaggedJSON) Decode(v any) error {
	if err := json.Unmarshal(t.Payload, v); err != nil {
		return &TaggedJSONError{Kind: "json", Cause: err}
	}
	return nil
}
