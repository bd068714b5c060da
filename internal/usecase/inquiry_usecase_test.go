package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/entity"
	"github.com/vitrine-imoveis/listing-service/internal/port/repository"
)

type MockMailSender struct{ mock.Mock }

func (m *MockMailSender) Send(to []string, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func TestInquiry_SendsEmailReferencingListingCode(t *testing.T) {
	listings := new(MockListingRepository)
	sender := new(MockMailSender)
	uc := NewInquiryUseCase(listings, sender, "agent@example.com", zap.NewNop())

	listings.On("GetByID", mock.Anything, "listing-1").Return(&entity.Listing{
		ID:    "listing-1",
		Code:  "CA-001",
		Title: "House with garden",
	}, nil).Once()

	var subject, body string
	sender.On("Send", []string{"agent@example.com"}, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			subject = args.String(1)
			body = args.String(2)
		}).
		Return(nil).Once()

	err := uc.Send(context.Background(), InquiryInput{
		ListingID: "listing-1",
		Name:      "Maria",
		Email:     "maria@example.com",
		Phone:     "+55 51 99999-9999",
		Message:   "Is it still available?",
	})

	require.NoError(t, err)
	assert.Contains(t, subject, "CA-001")
	assert.Contains(t, body, "Maria")
	assert.Contains(t, body, "Is it still available?")
	sender.AssertExpectations(t)
}

func TestInquiry_UnknownListing(t *testing.T) {
	listings := new(MockListingRepository)
	sender := new(MockMailSender)
	uc := NewInquiryUseCase(listings, sender, "agent@example.com", zap.NewNop())

	listings.On("GetByID", mock.Anything, "nope").Return(nil, repository.ErrNotFound).Once()

	err := uc.Send(context.Background(), InquiryInput{
		ListingID: "nope",
		Name:      "Maria",
		Email:     "maria@example.com",
		Message:   "Hello",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrListingNotFound)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestInquiry_ValidationFailure(t *testing.T) {
	listings := new(MockListingRepository)
	sender := new(MockMailSender)
	uc := NewInquiryUseCase(listings, sender, "agent@example.com", zap.NewNop())

	err := uc.Send(context.Background(), InquiryInput{ListingID: "listing-1", Email: "not-an-email"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	listings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestInquiry_SenderFailureIsSurfaced(t *testing.T) {
	listings := new(MockListingRepository)
	sender := new(MockMailSender)
	uc := NewInquiryUseCase(listings, sender, "agent@example.com", zap.NewNop())

	listings.On("GetByID", mock.Anything, "listing-1").Return(&entity.Listing{ID: "listing-1", Code: "CA-001"}, nil).Once()
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp refused")).Once()

	err := uc.Send(context.Background(), InquiryInput{
		ListingID: "listing-1",
		Name:      "Maria",
		Email:     "maria@example.com",
		Message:   "Hello",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp refused")
}
