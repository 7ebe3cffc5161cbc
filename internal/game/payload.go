// internal/game/payload.go
package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nebrown-cam/rook-game/engine"
)

// Payload decoding helpers. JSON numbers arrive as float64 and cards as
// their string identities; each helper validates one field and wraps
// failures in ErrBadPayload.

func payloadUUID(payload map[string]interface{}, key string) (uuid.UUID, error) {
	s, ok := payload[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %q", ErrBadPayload, key)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a uuid", ErrBadPayload, key)
	}
	return id, nil
}

func payloadInt16(payload map[string]interface{}, key string) (int16, error) {
	f, ok := payload[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: missing %q", ErrBadPayload, key)
	}
	n := int16(f)
	if float64(n) != f {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrBadPayload, key)
	}
	return n, nil
}

func payloadColor(payload map[string]interface{}, key string) (uint8, error) {
	s, ok := payload[key].(string)
	if !ok {
		return engine.ColorNone, fmt.Errorf("%w: missing %q", ErrBadPayload, key)
	}
	color, ok := engine.ParseColor(s)
	if !ok {
		return engine.ColorNone, fmt.Errorf("%w: unknown color %q", ErrBadPayload, s)
	}
	return color, nil
}

func payloadCard(payload map[string]interface{}, key string) (engine.Card, error) {
	s, ok := payload[key].(string)
	if !ok {
		return engine.NoCard, fmt.Errorf("%w: missing %q", ErrBadPayload, key)
	}
	card, ok := engine.ParseCardID(s)
	if !ok {
		return engine.NoCard, fmt.Errorf("%w: unknown card %q", ErrBadPayload, s)
	}
	return card, nil
}

func payloadCards(payload map[string]interface{}, key string) ([]engine.Card, error) {
	raw, ok := payload[key].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrBadPayload, key)
	}
	cards := make([]engine.Card, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q holds a non-string entry", ErrBadPayload, key)
		}
		card, ok := engine.ParseCardID(s)
		if !ok {
			return nil, fmt.Errorf("%w: unknown card %q", ErrBadPayload, s)
		}
		cards = append(cards, card)
	}
	return cards, nil
}
