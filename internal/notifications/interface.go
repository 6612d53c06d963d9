package notifications

import (
	"context"

	"github.com/antipiracy/exposure-dashboard/internal/models"
)

// NotificationInterface defines the contract for notification services
type NotificationInterface interface {
	SendReport(ctx context.Context, delivery *models.Delivery) error
}
