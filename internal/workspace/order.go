package workspace

import "fmt"

// permute returns items rearranged into order. order must name every
// element exactly once; otherwise an error describes the mismatch.
func permute[T any](items []T, idOf func(T) string, order []string) ([]T, error) {
	if len(order) != len(items) {
		return nil, fmt.Errorf("order has %d ids, expected %d", len(order), len(items))
	}
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[idOf(it)] = it
	}
	seen := make(map[string]bool, len(order))
	out := make([]T, 0, len(order))
	for _, id := range order {
		if seen[id] {
			return nil, fmt.Errorf("duplicate id %q in order", id)
		}
		seen[id] = true
		it, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown id %q in order", id)
		}
		out = append(out, it)
	}
	return compact(out), nil
}

// MoveOrder returns ids with the element id shifted by delta positions,
// clamped to the ends. It turns a single up/down gesture into the full
// permutation ReorderNotes expects. ok is false when id is absent.
func MoveOrder(ids []string, id string, delta int) (order []string, ok bool) {
	from := -1
	for i, v := range ids {
		if v == id {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, false
	}
	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(ids)-1 {
		to = len(ids) - 1
	}
	order = make([]string, 0, len(ids))
	for i, v := range ids {
		if i == from {
			continue
		}
		order = append(order, v)
	}
	order = append(order[:to], append([]string{id}, order[to:]...)...)
	return order, true
}
