// Package dispatch filters delivery orders for a viewer and aggregates courier
// payouts.
package dispatch

import (
	"strings"

	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
)

// MethodBucket groups delivery methods for the list tabs
type MethodBucket string

const (
	BucketAll      MethodBucket = "all"
	BucketLocal    MethodBucket = "local"    // Motoboy
	BucketDispatch MethodBucket = "dispatch" // Correios, Jadlog
)

// ParseBucket accepts all, local or dispatch. Empty means all.
func ParseBucket(s string) (MethodBucket, bool) {
	switch MethodBucket(strings.ToLower(strings.TrimSpace(s))) {
	case "", BucketAll:
		return BucketAll, true
	case BucketLocal:
		return BucketLocal, true
	case BucketDispatch:
		return BucketDispatch, true
	}
	return BucketAll, false
}

// ViewMode selects active or archived orders
type ViewMode string

const (
	ViewAll     ViewMode = "all"
	ViewActive  ViewMode = "active"
	ViewHistory ViewMode = "history"
)

// ParseViewMode accepts all, active or history. Empty means all.
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewAll:
		return ViewAll, true
	case ViewActive:
		return ViewActive, true
	case ViewHistory:
		return ViewHistory, true
	}
	return ViewAll, false
}

// Viewer is the user looking at the list
type Viewer struct {
	Name string
	Role enum.Role
}

// Filter holds the predicates combined with AND
type Filter struct {
	Search string
	Bucket MethodBucket
	View   ViewMode
	Date   string // YYYY-MM-DD, history mode only
}

// Match applies every predicate to one delivery
func (f Filter) Match(d *entity.Delivery, viewer Viewer) bool {
	return matchesSearch(d, f.Search) &&
		matchesBucket(d, f.Bucket) &&
		Visible(d, viewer) &&
		matchesView(d, f.View, f.Date)
}

// Apply returns the deliveries that match, preserving order
func Apply(deliveries []entity.Delivery, f Filter, viewer Viewer) []entity.Delivery {
	out := make([]entity.Delivery, 0, len(deliveries))
	for i := range deliveries {
		if f.Match(&deliveries[i], viewer) {
			out = append(out, deliveries[i])
		}
	}
	return out
}

// Visible reports whether the viewer may see the delivery. Motoboys see only
// orders assigned to their own name.
func Visible(d *entity.Delivery, viewer Viewer) bool {
	if viewer.Role.SeesOnlyOwnDeliveries() {
		return d.MotoboyName == viewer.Name
	}
	return true
}

func matchesSearch(d *entity.Delivery, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.CustomerName), term) ||
		strings.Contains(strings.ToLower(d.ID), term)
}

func matchesBucket(d *entity.Delivery, b MethodBucket) bool {
	switch b {
	case BucketLocal:
		return d.Method.IsLocal()
	case BucketDispatch:
		return d.Method.IsDispatch()
	}
	return true
}

func matchesView(d *entity.Delivery, mode ViewMode, date string) bool {
	switch mode {
	case ViewActive:
		return !d.Status.IsTerminal()
	case ViewHistory:
		if !d.Status.IsTerminal() {
			return false
		}
		if date != "" {
			return strings.HasPrefix(d.CreatedAt.Format("2006-01-02"), date)
		}
		return true
	}
	return true
}
