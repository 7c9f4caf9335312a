package actions

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownAction   = errors.New("unknown action type")
	ErrNotSerializable = errors.New("action is not serializable")
)

// envelope is the wire form of an action
type envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Marshal encodes an action as {"type": ..., "payload": ...}
func Marshal(a Action) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("marshal action: %w", ErrUnknownAction)
	}
	if a.Type() == SetStateType {
		return nil, fmt.Errorf("marshal %s: %w", a.Type(), ErrNotSerializable)
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", a.Type(), err)
	}
	return json.Marshal(envelope{Type: a.Type(), Payload: payload})
}

// Unmarshal decodes an envelope produced by Marshal. Options carry values of type V.
func Unmarshal[V comparable](data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	switch env.Type {
	case InputChangeType:
		return decode[InputChange](env)
	case OptionSelectedType:
		return decode[OptionSelected[V]](env)
	case OptionDeselectedType:
		return decode[OptionDeselected[V]](env)
	case IncrementHighlightIndexType:
		return decode[IncrementHighlightIndex](env)
	case DecrementHighlightIndexType:
		return decode[DecrementHighlightIndex](env)
	case SetOptionsType:
		return decode[SetOptions[V]](env)
	case AppendOptionsType:
		return decode[AppendOptions[V]](env)
	case SetMenuOpenType:
		return decode[SetMenuOpen](env)
	case SetInputFocusedType:
		return decode[SetInputFocused](env)
	case SetStateType:
		return nil, fmt.Errorf("decode %s: %w", env.Type, ErrNotSerializable)
	default:
		return nil, fmt.Errorf("decode %q: %w", env.Type, ErrUnknownAction)
	}
}

func decode[T Action](env envelope) (Action, error) {
	var a T
	if len(env.Payload) > 0 && string(env.Payload) != "null" {
		if err := json.Unmarshal(env.Payload, &a); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
	}
	return a, nil
}
