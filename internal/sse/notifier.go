package sse

import (
	"time"

	"github.com/ventapos/venta_api/internal/models"
)

// StockNotifier is the interface services use to emit stock alerts.
type StockNotifier interface {
	NotifyLowStock(p *models.Product)
}

// HubNotifier implements StockNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyLowStock(p *models.Product) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&StockEvent{
		Event:        EventStockLow,
		ProductID:    p.ID,
		ProductName:  p.Name,
		StockCurrent: p.StockCurrent,
		StockMin:     p.StockMin,
		Timestamp:    time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyLowStock(p *models.Product) {}
