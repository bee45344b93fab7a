package registry

// ActiveLinks returns, in their original order, every added event whose link was
// never removed. A removal matches an addition by LinkKey alone, wherever it sits
// in the chain relative to the addition. Duplicated additions are kept or dropped
// together and removals with no matching addition have no effect.
//
// Both slices must be fully materialized; the function does no I/O and cannot fail.
func ActiveLinks(added, removed []LinkEvent) []LinkEvent {
	removedKeys := make(map[LinkKey]struct{}, len(removed))
	for _, e := range removed {
		removedKeys[e.Key()] = struct{}{}
	}

	active := make([]LinkEvent, 0, len(added))
	for _, e := range added {
		if _, ok := removedKeys[e.Key()]; ok {
			continue
		}
		active = append(active, e)
	}
	return active
}
