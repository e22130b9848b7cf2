// Package state round-trips engine memory through the opaque blob that
// crosses ticks. The schema is versioned and every field restores
// independently: a missing or malformed field starts empty while intact
// fields in the same blob are preserved, so a schema change never corrupts
// the pieces it did not touch.
package state

import "encoding/json"

// Version identifies the current blob schema.
const Version = 1

// Snapshot is the engine memory that survives across ticks.
type Snapshot struct {
	Version  int                  `json:"version"`
	History  map[string][]float64 `json:"history"`   // per-product fair value history, oldest first
	EMAShort map[string]float64   `json:"ema_short"` // present only once a product has observations
	EMALong  map[string]float64   `json:"ema_long"`
}

// NewSnapshot returns an empty snapshot at the current schema version.
func NewSnapshot() Snapshot {
	return Snapshot{
		Version:  Version,
		History:  make(map[string][]float64),
		EMAShort: make(map[string]float64),
		EMALong:  make(map[string]float64),
	}
}

// rawSnapshot defers field decoding so one bad field cannot poison the rest.
type rawSnapshot struct {
	Version  json.RawMessage `json:"version"`
	History  json.RawMessage `json:"history"`
	EMAShort json.RawMessage `json:"ema_short"`
	EMALong  json.RawMessage `json:"ema_long"`
}

// Restore decodes the previous tick's blob. An empty blob (first tick ever),
// a malformed blob, or any malformed field yields empty defaults for exactly
// the affected pieces; Restore never fails.
func Restore(blob string) Snapshot {
	snap := NewSnapshot()
	if blob == "" {
		return snap
	}

	var raw rawSnapshot
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return snap
	}

	if raw.Version != nil {
		var v int
		if err := json.Unmarshal(raw.Version, &v); err == nil {
			snap.Version = v
		}
	}
	if raw.History != nil {
		var h map[string][]float64
		if err := json.Unmarshal(raw.History, &h); err == nil && h != nil {
			snap.History = h
		}
	}
	if raw.EMAShort != nil {
		var m map[string]float64
		if err := json.Unmarshal(raw.EMAShort, &m); err == nil && m != nil {
			snap.EMAShort = m
		}
	}
	if raw.EMALong != nil {
		var m map[string]float64
		if err := json.Unmarshal(raw.EMALong, &m); err == nil && m != nil {
			snap.EMALong = m
		}
	}
	snap.Version = Version
	return snap
}

// Encode serializes the snapshot for the next tick. Encoding plain maps of
// numbers cannot fail; on the impossible error an empty blob is returned so
// the contract of always handing back a valid blob still holds.
func (s Snapshot) Encode() string {
	s.Version = Version
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}
