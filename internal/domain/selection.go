package domain

import (
	"errors"
	"fmt"
	"slices"
)

// SelectionObserver is notified after the expressed attribute is set.
type SelectionObserver func(previous, current string)

// Selection holds the currently expressed attribute. Set is the only mutator
// and every accepted Set notifies the observers in subscription order.
type Selection struct {
	attributes []string
	expressed  string
	observers  []SelectionObserver
}

// NewSelection starts with the first of attributes expressed.
func NewSelection(attributes []string) (*Selection, error) {
	if len(attributes) == 0 {
		return nil, errors.New("selection needs at least one attribute")
	}
	return &Selection{
		attributes: slices.Clone(attributes),
		expressed:  attributes[0],
	}, nil
}

// Expressed returns the current attribute name.
func (s *Selection) Expressed() string { return s.expressed }

// Attributes returns the selectable attribute names in order.
func (s *Selection) Attributes() []string { return s.attributes }

// Index returns the position of the expressed attribute in the list.
func (s *Selection) Index() int { return slices.Index(s.attributes, s.expressed) }

// Subscribe registers fn for every subsequent accepted Set.
func (s *Selection) Subscribe(fn SelectionObserver) {
	s.observers = append(s.observers, fn)
}

// Set changes the expressed attribute. Names outside the configured list are
// rejected with ErrInvalidSelection and leave the state unchanged. Setting the
// current attribute again still notifies, so views re-render idempotently.
func (s *Selection) Set(attr string) error {
	if !slices.Contains(s.attributes, attr) {
		return fmt.Errorf("%w: %q", ErrInvalidSelection, attr)
	}
	prev := s.expressed
	s.expressed = attr
	for _, fn := range s.observers {
		fn(prev, attr)
	}
	return nil
}
