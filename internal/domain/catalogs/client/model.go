// Package client provides the Client catalog: recipients of shipments.
package client

import (
	"context"
	"strings"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/core/entity"
)

// Client is a shipment recipient. Its name is unique across all clients.
type Client struct {
	entity.Catalog

	// Address is the delivery address
	Address string `db:"address" json:"address"`
}

// NewClient creates an active client.
func NewClient(name, address string) *Client {
	return &Client{
		Catalog: entity.NewCatalog(name),
		Address: strings.TrimSpace(address),
	}
}

// Validate implements entity.Validatable interface.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	if c.Address == "" {
		return apperror.NewValidation("address is required").
			WithDetail("field", "address")
	}
	return nil
}
