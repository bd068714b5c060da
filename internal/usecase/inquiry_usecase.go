package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/port/repository"
)

// MailSender delivers a plain-text email.
type MailSender interface {
	Send(to []string, subject, body string) error
}

// InquiryInput is a visitor's contact request about one listing.
type InquiryInput struct {
	ListingID string
	Name      string
	Email     string
	Phone     string
	Message   string
}

func (in InquiryInput) Validate() error {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !strings.Contains(in.Email, "@") {
		problems = append(problems, "a valid email is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		problems = append(problems, "message is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// InquiryUseCase forwards visitor inquiries about a listing to the agent
// by email, referencing the listing's human-readable code.
type InquiryUseCase struct {
	listings   repository.ListingRepository
	sender     MailSender
	agentEmail string
	logger     *zap.Logger
}

func NewInquiryUseCase(listings repository.ListingRepository, sender MailSender, agentEmail string, logger *zap.Logger) *InquiryUseCase {
	return &InquiryUseCase{
		listings:   listings,
		sender:     sender,
		agentEmail: agentEmail,
		logger:     logger,
	}
}

func (uc *InquiryUseCase) Send(ctx context.Context, in InquiryInput) error {
	if uc.sender == nil {
		return fmt.Errorf("InquiryUseCase.Send: mail delivery is not configured")
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("InquiryUseCase.Send: %w", err)
	}

	listing, err := uc.listings.GetByID(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("InquiryUseCase.Send: %w", ErrListingNotFound)
		}
		return fmt.Errorf("InquiryUseCase.Send: %w", err)
	}

	subject := fmt.Sprintf("New inquiry for listing %s", listing.Code)
	body := fmt.Sprintf(
		"Listing: %s (%s)\nFrom: %s <%s>\nPhone: %s\n\n%s\n",
		listing.Title, listing.Code, in.Name, in.Email, in.Phone, in.Message)

	if err := uc.sender.Send([]string{uc.agentEmail}, subject, body); err != nil {
		uc.logger.Error("Failed to send inquiry email",
			zap.String("listing_id", in.ListingID), zap.Error(err))
		return fmt.Errorf("InquiryUseCase.Send: %w", err)
	}

	uc.logger.Info("Inquiry forwarded",
		zap.String("listing_id", in.ListingID), zap.String("code", listing.Code))
	return nil
}
