package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
)

const dashboardCacheKey = "dashboard:stats"

// DashboardService serves read-side projections. No locks: the numbers are
// advisory and may lag the ledger by up to the cache TTL.
type DashboardService struct {
	dashboardRepository  repositories.DashboardRepositoryInterface
	assignmentRepository repositories.AssignmentRepositoryInterface
	checkRepository      repositories.InventoryCheckRepositoryInterface
	employeeRepository   repositories.EmployeeRepositoryInterface
	cache                repositories.CacheRepositoryInterface
	cacheTTL             time.Duration
	recentLimit          int
	clock                Clock
	logger               *zap.Logger
}

func NewDashboardService(
	dashboardRepository repositories.DashboardRepositoryInterface,
	assignmentRepository repositories.AssignmentRepositoryInterface,
	checkRepository repositories.InventoryCheckRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	recentLimit int,
	clock Clock,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		dashboardRepository:  dashboardRepository,
		assignmentRepository: assignmentRepository,
		checkRepository:      checkRepository,
		employeeRepository:   employeeRepository,
		cache:                cache,
		cacheTTL:             cacheTTL,
		recentLimit:          recentLimit,
		clock:                clock,
		logger:               logger,
	}
}

// Stats returns the dashboard snapshot, from cache when fresh enough. Cache
// failures degrade to a direct read, never to an error.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	if s.cache != nil {
		var cached dto.DashboardStatsDTO
		hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.buildStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot so the next read rebuilds it.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, dashboardCacheKey)
}

func (s *DashboardService) buildStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := s.clock.Now()

	byStatus, err := s.dashboardRepository.CountEquipmentByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}

	employeeCount, err := s.employeeRepository.Count(ctx)
	if err != nil {
		return nil, err
	}
	overdueCount, err := s.assignmentRepository.OverdueCount(ctx, now)
	if err != nil {
		return nil, err
	}
	totalCost, err := s.dashboardRepository.TotalPurchaseCost(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.assignmentRepository.Recent(ctx, s.recentLimit)
	if err != nil {
		return nil, err
	}
	recentAssignments := make([]dto.AssignmentDTO, 0, len(recent))
	for i := range recent {
		d := &recent[i]
		recentAssignments = append(recentAssignments, dto.AssignmentDTO{
			ID:                 d.ID,
			EquipmentID:        d.EquipmentID,
			InventoryNumber:    d.InventoryNumber,
			EquipmentName:      d.EquipmentName,
			EmployeeID:         d.EmployeeCode,
			EmployeeName:       d.EmployeeName,
			AssignedDate:       d.AssignedDate.Format(constants.DateLayout),
			ExpectedReturnDate: d.ExpectedReturnDate,
			ReturnDate:         d.ReturnDate,
			DaysHeld:           d.DaysHeld(now),
			Overdue:            d.IsOverdue(now),
		})
	}

	checks, err := s.checkRepository.Recent(ctx, s.recentLimit)
	if err != nil {
		return nil, err
	}
	recentChecks := make([]dto.InventoryCheckDTO, 0, len(checks))
	for _, c := range checks {
		recentChecks = append(recentChecks, dto.InventoryCheckDTO{
			ID:           c.ID,
			CheckType:    string(c.CheckType),
			CheckDate:    c.CheckDate.Format(constants.DateTimeLayout),
			Location:     c.Location,
			Condition:    c.Condition,
			IsFunctional: c.IsFunctional,
			CheckedBy:    c.CheckedBy,
			Notes:        c.Notes,
		})
	}

	// Make sure every status shows up even with zero rows.
	for _, st := range []entities.EquipmentStatus{
		entities.StatusAvailable, entities.StatusAssigned,
		entities.StatusMaintenance, entities.StatusRetired,
	} {
		if _, ok := byStatus[string(st)]; !ok {
			byStatus[string(st)] = 0
		}
	}

	return &dto.DashboardStatsDTO{
		EquipmentByStatus: byStatus,
		EquipmentTotal:    total,
		EmployeeCount:     employeeCount,
		OverdueCount:      overdueCount,
		TotalPurchaseCost: totalCost,
		RecentAssignments: recentAssignments,
		RecentChecks:      recentChecks,
		GeneratedAt:       now.Format(constants.DateTimeLayout),
	}, nil
}
