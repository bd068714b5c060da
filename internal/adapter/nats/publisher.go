package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/config"
	"github.com/vitrine-imoveis/listing-service/internal/entity"
)

const (
	ListingCreatedSubject       = "listing.created"
	ListingUpdatedSubject       = "listing.updated"
	ListingDeletedSubject       = "listing.deleted"
	ListingStatusChangedSubject = "listing.status_changed"
)

// Publisher emits listing lifecycle events so downstream consumers
// (search indexers, notification workers) can react without polling.
type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

type listingIDPayload struct {
	ID string `json:"id"`
}

type statusChangedPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.ConnectTimeout),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Successfully connected to NATS", zap.String("url", nc.ConnectedUrl()))

	return &Publisher{nc: nc, logger: logger}, nil
}

func (p *Publisher) PublishListingCreated(ctx context.Context, listing *entity.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing for %s: %w", ListingCreatedSubject, err)
	}
	return p.publish(ListingCreatedSubject, listing.ID, data)
}

func (p *Publisher) PublishListingUpdated(ctx context.Context, listingID string) error {
	data, err := json.Marshal(listingIDPayload{ID: listingID})
	if err != nil {
		return fmt.Errorf("failed to marshal listing ID for %s: %w", ListingUpdatedSubject, err)
	}
	return p.publish(ListingUpdatedSubject, listingID, data)
}

func (p *Publisher) PublishListingDeleted(ctx context.Context, listingID string) error {
	data, err := json.Marshal(listingIDPayload{ID: listingID})
	if err != nil {
		return fmt.Errorf("failed to marshal listing ID for %s: %w", ListingDeletedSubject, err)
	}
	return p.publish(ListingDeletedSubject, listingID, data)
}

func (p *Publisher) PublishListingStatusChanged(ctx context.Context, listingID string, status entity.Status) error {
	data, err := json.Marshal(statusChangedPayload{ID: listingID, Status: string(status)})
	if err != nil {
		return fmt.Errorf("failed to marshal status change for %s: %w", ListingStatusChangedSubject, err)
	}
	return p.publish(ListingStatusChangedSubject, listingID, data)
}

func (p *Publisher) publish(subject, listingID string, data []byte) error {
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish NATS message",
			zap.String("subject", subject),
			zap.String("listing_id", listingID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish NATS message for %s: %w", subject, err)
	}
	p.logger.Debug("Published NATS message",
		zap.String("subject", subject),
		zap.String("listing_id", listingID),
	)
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		if err := p.nc.Drain(); err != nil {
			p.logger.Error("Error draining NATS connection", zap.Error(err))
		}
		p.nc.Close()
		p.logger.Info("NATS publisher connection closed")
	}
}
