package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		name    string
		ltype   ListingType
		from    Status
		to      Status
		allowed bool
	}{
		{"SaleBecomesSold", TypeForSale, StatusAvailable, StatusSold, true},
		{"SaleCannotBecomeRented", TypeForSale, StatusAvailable, StatusRented, false},
		{"RentalBecomesRented", TypeForRent, StatusAvailable, StatusRented, true},
		{"RentalCannotBecomeSold", TypeForRent, StatusAvailable, StatusSold, false},
		{"SoldBackToAvailable", TypeForSale, StatusSold, StatusAvailable, true},
		{"RentedBackToAvailable", TypeForRent, StatusRented, StatusAvailable, true},
		{"SoldCannotBecomeRented", TypeForSale, StatusSold, StatusRented, false},
		{"RentedCannotBecomeSold", TypeForRent, StatusRented, StatusSold, false},
		{"AvailableToAvailableIsNotATransition", TypeForSale, StatusAvailable, StatusAvailable, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := &Listing{Type: tc.ltype, Status: tc.from}
			assert.Equal(t, tc.allowed, l.CanTransitionTo(tc.to))
		})
	}
}

func TestListing_Transition(t *testing.T) {
	l := &Listing{Type: TypeForRent, Status: StatusAvailable}

	err := l.Transition(StatusSold)
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, StatusAvailable, l.Status, "status must be untouched after a rejected transition")

	require.NoError(t, l.Transition(StatusRented))
	assert.Equal(t, StatusRented, l.Status)

	require.NoError(t, l.Transition(StatusAvailable))
	assert.Equal(t, StatusAvailable, l.Status)
}

func TestListing_TransitionRejectsUnknownStatus(t *testing.T) {
	l := &Listing{Type: TypeForSale, Status: StatusAvailable}
	err := l.Transition(Status("reserved"))
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, TypeForSale.Valid())
	assert.True(t, TypeForRent.Valid())
	assert.False(t, ListingType("auction").Valid())

	assert.True(t, CategoryHouse.Valid())
	assert.True(t, CategoryCommercialUnit.Valid())
	assert.False(t, Category("castle").Valid())

	assert.True(t, StatusAvailable.Valid())
	assert.False(t, Status("archived").Valid())
}
