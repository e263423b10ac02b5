package ecs

import "github.com/milk9111/entitystate/ecs/component"

// Query returns the live entities carrying every listed component, in the
// storage order of the smallest storage.
func (w *World) Query(ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	// iterate smaller set
	var smallest *SparseSet
	for _, id := range ids {
		s := w.store(id, false)
		if s == nil {
			return nil
		}
		if smallest == nil || s.Len() < smallest.Len() {
			smallest = s
		}
	}
	out := make([]Entity, 0, smallest.Len())
	for _, id := range smallest.denseEntities {
		match := true
		for _, cid := range ids {
			if !w.stores[cid].Has(id) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if e, ok := w.entities.entityFor(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns one live entity carrying the component id.
func (w *World) First(id component.ComponentID) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.store(id, false)
	if s == nil {
		return 0, false
	}
	for _, eid := range s.denseEntities {
		if e, ok := w.entities.entityFor(eid); ok {
			return e, true
		}
	}
	return 0, false
}
