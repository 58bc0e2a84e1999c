package core

import (
	"fmt"
	"sync"
)

// Identifiers hands out small integer ids to owners and recycles the
// ids of released owners. Backends use it to mint native view handles.
type Identifiers struct {
	mu     sync.Mutex
	owners []interface{}
}

func NewIdentifiers() *Identifiers {
	return &Identifiers{
		owners: make([]interface{}, 0, 100),
	}
}

// Acquire returns the first free id. Id 0 is never handed out so that
// the zero value can keep meaning "no object".
func (ids *Identifiers) Acquire(owner interface{}) uint32 {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	if len(ids.owners) == 0 {
		ids.owners = append(ids.owners, ids)
	}
	length := uint32(len(ids.owners))
	for i := uint32(1); i < length; i++ {
		// Existing free spot. Take it.
		if ids.owners[i] == nil {
			ids.owners[i] = owner
			return i
		}
	}

	ids.owners = append(ids.owners, owner)
	return uint32(len(ids.owners)) - 1
}

func (ids *Identifiers) Release(id uint32) error {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	length := uint32(len(ids.owners))
	if id == 0 || id >= length {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d). Nothing was done", id, length)
	}
	if ids.owners[id] == nil {
		return fmt.Errorf("identifier release: id '%d' is not in use. Nothing was done", id)
	}

	// Just zero out the entry, making it available for use.
	ids.owners[id] = nil
	return nil
}

func (ids *Identifiers) Owner(id uint32) interface{} {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	if id == 0 || id >= uint32(len(ids.owners)) {
		return nil
	}
	return ids.owners[id]
}

// Live returns the number of ids currently in use.
func (ids *Identifiers) Live() int {
	ids.mu.Lock()
	defer ids.mu.Unlock()

	n := 0
	for i := 1; i < len(ids.owners); i++ {
		if ids.owners[i] != nil {
			n++
		}
	}
	return n
}
