package engine

import (
	"sort"
	"time"
)

// Order is the engine-wide sort direction for the canonical tree.
type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

// ParseOrder maps a config value to an Order, defaulting to newest-first.
func ParseOrder(s string) Order {
	if s == "oldest_first" {
		return OldestFirst
	}
	return NewestFirst
}

// SortTree orders top-level comments and each comment's replies
// independently by effective timestamp.
func SortTree(comments []*Comment, order Order) {
	sort.SliceStable(comments, func(i, j int) bool {
		return nodeLess(&comments[i].Node, &comments[j].Node, order)
	})
	for _, c := range comments {
		replies := c.Replies
		sort.SliceStable(replies, func(i, j int) bool {
			return nodeLess(&replies[i].Node, &replies[j].Node, order)
		})
	}
}

func nodeLess(a, b *Node, order Order) bool {
	at, bt := effectiveTime(a), effectiveTime(b)
	if order == NewestFirst {
		return at.After(bt)
	}
	return at.Before(bt)
}

// effectiveTime falls back createdAt -> updatedAt -> now; missing
// timestamps never fail a sort.
func effectiveTime(n *Node) time.Time {
	if !n.CreatedAt.IsZero() {
		return n.CreatedAt
	}
	if !n.UpdatedAt.IsZero() {
		return n.UpdatedAt
	}
	return time.Now()
}
