// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/stakehive"
)

// Registry is the set of currently staked participants, backing bulk
// distribution. A dense slice plus a position index give O(1) membership
// test, add and remove. Order is insertion order, disturbed only by
// swap-on-removal.
type Registry struct {
	slots []stakehive.Address
	index map[stakehive.Address]int
}

func NewRegistry() *Registry {
	return &Registry{
		index: make(map[stakehive.Address]int),
	}
}

// Contains reports membership.
func (r *Registry) Contains(p stakehive.Address) bool {
	_, ok := r.index[p]
	return ok
}

// Add appends p and records its position.
// Callers must guarantee p is not already present; the ledger does so by
// adding only on the zero-to-positive principal transition.
func (r *Registry) Add(p stakehive.Address) {
	r.index[p] = len(r.slots)
	r.slots = append(r.slots, p)
}

// Remove swaps p's slot with the last slot, fixes the moved element's
// recorded position and shrinks the sequence by one.
func (r *Registry) Remove(p stakehive.Address) error {
	pos, ok := r.index[p]
	if !ok {
		return errors.Errorf("registry: %v not found", p)
	}
	last := len(r.slots) - 1
	if pos != last {
		moved := r.slots[last]
		r.slots[pos] = moved
		r.index[moved] = pos
	}
	r.slots = r.slots[:last]
	delete(r.index, p)
	return nil
}

// Len returns the current size.
func (r *Registry) Len() int {
	return len(r.slots)
}

// Members returns a snapshot of the current active set, safe to iterate
// while the registry mutates.
func (r *Registry) Members() []stakehive.Address {
	members := make([]stakehive.Address, len(r.slots))
	copy(members, r.slots)
	return members
}
