package repository

import "encoding/json"

// storageBytes measures how many bytes a row consumes, as the serialized
// size of the model. Byte-accounted entry points charge callers against
// this measure.
func storageBytes(model any) int64 {
	raw, err := json.Marshal(model)
	if err != nil {
		return 0
	}
	return int64(len(raw))
}
