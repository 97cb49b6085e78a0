package dashboard

import "strings"

// Toggles records which groups are switched on. Groups are independent; the
// zero value shows nothing.
type Toggles map[GroupID]bool

// Flip returns a copy of t with id inverted.
func (t Toggles) Flip(id GroupID) Toggles {
	out := make(Toggles, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[id] = !out[id]
	return out
}

// All returns toggles with every group on.
func All() Toggles {
	t := make(Toggles, len(Order))
	for _, id := range Order {
		t[id] = true
	}
	return t
}

// ParseToggles reads a comma-separated id list such as "pressure,organs".
// Unknown ids are reported.
func ParseToggles(s string) (Toggles, error) {
	t := Toggles{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "all" {
			return All(), nil
		}
		id, err := ParseGroupID(part)
		if err != nil {
			return nil, err
		}
		t[id] = true
	}
	return t, nil
}
