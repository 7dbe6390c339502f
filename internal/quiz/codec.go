package quiz

import (
	"encoding/json"
	"fmt"
)

// contextEnvelope tags a serialized Context with its scope so it can be
// decoded back into the right concrete type.
type contextEnvelope struct {
	Scope   Scope           `json:"scope"`
	Context json.RawMessage `json:"context"`
}

// MarshalContext encodes c together with its scope tag.
func MarshalContext(c Context) ([]byte, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal %s context: %w", c.Scope(), err)
	}
	return json.Marshal(contextEnvelope{Scope: c.Scope(), Context: body})
}

// UnmarshalContext decodes data produced by MarshalContext.
func UnmarshalContext(data []byte) (Context, error) {
	var env contextEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal context envelope: %w", err)
	}

	var c Context
	switch env.Scope {
	case ScopeSubtopic:
		c = &SubtopicContext{}
	case ScopeTopic:
		c = &TopicContext{}
	case ScopeDocument:
		c = &DocumentContext{}
	default:
		return nil, fmt.Errorf("unknown context scope %q", env.Scope)
	}
	if err := json.Unmarshal(env.Context, c); err != nil {
		return nil, fmt.Errorf("unmarshal %s context: %w", env.Scope, err)
	}
	return c, nil
}
