package catalog

import (
	"errors"

	"github.com/ekaraca/dolap/internal/model"
)

// State machine failure modes.
var (
	ErrNoProfile    = errors.New("no profile selected")
	ErrBadProfile   = errors.New("unknown profile")
	ErrBadCategory  = errors.New("unknown category")
	ErrBadSlot      = errors.New("unknown outfit slot")
	ErrNotConfirmed = errors.New("delete not confirmed")
	ErrNotFound     = errors.New("item not found")
)

// Slot is a named position in the outfit builder.
type Slot string

// Outfit slots.
const (
	SlotHead      Slot = "head"
	SlotTop       Slot = "top"
	SlotBottom    Slot = "bottom"
	SlotShoes     Slot = "shoes"
	SlotAccessory Slot = "accessory"
)

// Slots lists every outfit slot in display order.
var Slots = []Slot{SlotHead, SlotTop, SlotBottom, SlotShoes, SlotAccessory}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	switch s {
	case SlotHead, SlotTop, SlotBottom, SlotShoes, SlotAccessory:
		return true
	}
	return false
}

// Category returns the item category an open slot is scoped to when
// picking from the catalog.
func (s Slot) Category() model.Category {
	return model.Category(s)
}

// State holds the catalog session: the current profile and category
// filter, the outfit slot assignments, and the last applied query
// result. An empty profile means the landing view; everything else is
// the dashboard. State is not safe for concurrent use — the Controller
// serializes access.
type State struct {
	profile  model.Profile
	category model.Category
	outfit   map[Slot]string
	items    []model.Item

	// gen is bumped on every transition that supersedes the in-flight
	// query, so that a stale response can never overwrite a newer
	// selection: results are applied only if their generation is still
	// current (last request wins).
	gen uint64
}

// NewState returns a fresh session in the landing view.
func NewState() *State {
	return &State{outfit: map[Slot]string{}}
}

// Landing reports whether no profile is selected.
func (s *State) Landing() bool {
	return s.profile == ""
}

// Filter returns the active filter. Only meaningful on the dashboard.
func (s *State) Filter() model.Filter {
	return model.Filter{Profile: s.profile, Category: s.category}
}

// SelectProfile enters the dashboard for the given profile with the
// category filter reset and all outfit slots empty. Selecting a profile
// while a dashboard is active discards that dashboard first, as if the
// user had gone back to the landing view. Returns the generation for
// the query this transition triggers.
func (s *State) SelectProfile(p model.Profile) (uint64, error) {
	if !p.Valid() {
		return 0, ErrBadProfile
	}
	s.profile = p
	s.category = model.CategoryAll
	s.outfit = map[Slot]string{}
	s.items = nil
	s.gen++
	return s.gen, nil
}

// GoBack returns to the landing view, destroying the dashboard state:
// profile, category, outfit slots, and any displayed items. In-flight
// query results are superseded.
func (s *State) GoBack() {
	s.profile = ""
	s.category = ""
	s.outfit = map[Slot]string{}
	s.items = nil
	s.gen++
}

// SetCategory updates the active category filter and supersedes any
// in-flight query. Returns the generation for the re-query. Valid only
// on the dashboard.
func (s *State) SetCategory(c model.Category) (uint64, error) {
	if s.Landing() {
		return 0, ErrNoProfile
	}
	if c != model.CategoryAll && !c.Valid() {
		return 0, ErrBadCategory
	}
	s.category = c
	s.gen++
	return s.gen, nil
}

// Refresh supersedes any in-flight query without changing the filter,
// for re-running it after a mutation. Returns the new generation.
func (s *State) Refresh() (uint64, error) {
	if s.Landing() {
		return 0, ErrNoProfile
	}
	s.gen++
	return s.gen, nil
}

// Apply installs a query result if its generation is still current.
// Results from superseded requests are dropped, never rendered.
func (s *State) Apply(gen uint64, items []model.Item) bool {
	if gen != s.gen {
		return false
	}
	s.items = items
	return true
}

// Items returns the last applied query result.
func (s *State) Items() []model.Item {
	return s.items
}

// AssignSlot stores an image payload in an outfit slot. The slot holds
// the payload by value: deleting the source item later does not retract
// it from an assembled outfit.
func (s *State) AssignSlot(slot Slot, image string) error {
	if s.Landing() {
		return ErrNoProfile
	}
	if !slot.Valid() {
		return ErrBadSlot
	}
	s.outfit[slot] = image
	return nil
}

// ResetOutfit clears all slot assignments.
func (s *State) ResetOutfit() {
	s.outfit = map[Slot]string{}
}

// Outfit returns a copy of the current slot assignments.
func (s *State) Outfit() map[Slot]string {
	out := make(map[Slot]string, len(s.outfit))
	for k, v := range s.outfit {
		out[k] = v
	}
	return out
}
