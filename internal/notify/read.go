package notify

import "slices"

// MarkRead returns a copy of ns with the notification id marked read.
func MarkRead(ns []Notification, id string) []Notification {
	out := slices.Clone(ns)
	for i := range out {
		if out[i].ID == id {
			out[i].Read = true
		}
	}
	return out
}

// MarkAllRead returns a copy of ns with every notification marked read.
func MarkAllRead(ns []Notification) []Notification {
	out := slices.Clone(ns)
	for i := range out {
		out[i].Read = true
	}
	return out
}

// ApplyReadState marks read every notification whose id is in readIDs.
func ApplyReadState(ns []Notification, readIDs map[string]bool) []Notification {
	out := slices.Clone(ns)
	for i := range out {
		if readIDs[out[i].ID] {
			out[i].Read = true
		}
	}
	return out
}

func UnreadCount(ns []Notification) int {
	n := 0
	for _, x := range ns {
		if !x.Read {
			n++
		}
	}
	return n
}
