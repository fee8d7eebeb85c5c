package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformed is returned when a persisted progress blob cannot be decoded.
var ErrMalformed = errors.New("malformed progress blob")

// unitRecord is the persisted shape of UnitProgress. Card IDs are a plain
// list; order carries no meaning.
type unitRecord struct {
	CompletedCards    []string `json:"completedCards"`
	ExerciseCompleted bool     `json:"exerciseCompleted"`
	RewardClaimed     bool     `json:"rewardClaimed"`
}

// Encode serializes progress keyed by the decimal unit ID. Card lists are
// sorted so equal progress always encodes to identical bytes.
func Encode(up UserProgress) ([]byte, error) {
	out := make(map[string]unitRecord, len(up))
	for id, p := range up {
		out[strconv.Itoa(id)] = unitRecord{
			CompletedCards:    p.CompletedCards.Sorted(),
			ExerciseCompleted: p.ExerciseCompleted,
			RewardClaimed:     p.RewardClaimed,
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return data, nil
}

// Decode parses a progress blob. Unknown fields are ignored and missing
// fields take their defaults; duplicate card IDs collapse.
func Decode(data []byte) (UserProgress, error) {
	var raw map[string]unitRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	up := make(UserProgress, len(raw))
	for key, rec := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: unit key %q is not an integer", ErrMalformed, key)
		}
		up[id] = UnitProgress{
			CompletedCards:    NewSet(rec.CompletedCards...),
			ExerciseCompleted: rec.ExerciseCompleted,
			RewardClaimed:     rec.RewardClaimed,
		}
	}
	return up, nil
}
