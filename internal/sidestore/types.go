package sidestore

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Pref is a stored preference value. UpdatedAt is kept for debugging stale
// state across sessions.
type Pref struct {
	Value     string `msgpack:"value"`
	UpdatedAt int64  `msgpack:"updatedAt"`
}

func (p *Pref) MarshalBinary() (data []byte, err error) {
	type alias Pref
	return msgpack.Marshal((*alias)(p))
}

func (p *Pref) UnmarshalBinary(data []byte) error {
	type alias Pref
	return msgpack.Unmarshal(data, (*alias)(p))
}
