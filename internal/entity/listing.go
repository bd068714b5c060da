package entity

import (
	"errors"
	"time"
)

// ListingType tells whether a property is offered for sale or for rent.
type ListingType string

const (
	TypeForSale ListingType = "for_sale"
	TypeForRent ListingType = "for_rent"
)

func (t ListingType) Valid() bool {
	return t == TypeForSale || t == TypeForRent
}

// Category is the kind of property being offered.
type Category string

const (
	CategoryHouse          Category = "house"
	CategoryApartment      Category = "apartment"
	CategoryLand           Category = "land"
	CategoryCommercialUnit Category = "commercial_unit"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHouse, CategoryApartment, CategoryLand, CategoryCommercialUnit:
		return true
	}
	return false
}

// Status is the commercial state of a listing. A listing is created as
// available and moves to sold or rented when the deal closes.
type Status string

const (
	StatusAvailable Status = "available"
	StatusSold      Status = "sold"
	StatusRented    Status = "rented"
)

func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusSold || s == StatusRented
}

var ErrInvalidStatusTransition = errors.New("status transition not allowed")

// Listing is one property offered for sale or rent.
type Listing struct {
	ID           string
	Code         string // human-readable reference, e.g. "CA-001"
	Title        string
	Description  string
	Price        float64
	City         string
	Neighborhood string
	Address      string
	Type         ListingType
	Category     Category
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanTransitionTo reports whether the listing may move to the given status.
// A sale listing can only be marked sold, a rental only rented, and either
// can be reopened as available.
func (l *Listing) CanTransitionTo(next Status) bool {
	switch {
	case l.Status == StatusAvailable && next == StatusSold:
		return l.Type == TypeForSale
	case l.Status == StatusAvailable && next == StatusRented:
		return l.Type == TypeForRent
	case (l.Status == StatusSold || l.Status == StatusRented) && next == StatusAvailable:
		return true
	}
	return false
}

// Transition applies a status change after checking the transition guard.
func (l *Listing) Transition(next Status) error {
	if !next.Valid() {
		return ErrInvalidStatusTransition
	}
	if !l.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	l.Status = next
	return nil
}

// ListingImage binds one stored photograph to a listing. The image with
// the lowest display order is the cover. Rows are inserted and deleted,
// never updated in place.
type ListingImage struct {
	ID           string
	ListingID    string
	URL          string
	DisplayOrder int
	CreatedAt    time.Time
}
