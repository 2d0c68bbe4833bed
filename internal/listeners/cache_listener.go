package listeners

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/events"
	"inventory-system/internal/services"
	"inventory-system/pkg/eventbus"
)

// CacheListener drops the dashboard snapshot whenever equipment state
// changes. Invalidation is best-effort: a failed delete just means the
// dashboard stays stale until the TTL expires.
type CacheListener struct {
	dashboardService *services.DashboardService
	logger           *zap.Logger
}

func NewCacheListener(dashboardService *services.DashboardService, logger *zap.Logger) *CacheListener {
	return &CacheListener{dashboardService: dashboardService, logger: logger}
}

func (l *CacheListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.EquipmentChangedEvent{}.Name(), l.handleEquipmentChanged)
}

func (l *CacheListener) handleEquipmentChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.EquipmentChangedEvent)
	if !ok {
		return nil
	}
	l.logger.Debug("invalidating dashboard cache",
		zap.String("inventory_number", e.InventoryNumber),
		zap.String("action", e.Action))
	return l.dashboardService.Invalidate(ctx)
}
