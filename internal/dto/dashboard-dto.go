package dto

type DashboardStatsDTO struct {
	EquipmentByStatus map[string]int64    `json:"equipment_by_status"`
	EquipmentTotal    int64               `json:"equipment_total"`
	EmployeeCount     int64               `json:"employee_count"`
	OverdueCount      int64               `json:"overdue_count"`
	TotalPurchaseCost float64             `json:"total_purchase_cost"`
	RecentAssignments []AssignmentDTO     `json:"recent_assignments"`
	RecentChecks      []InventoryCheckDTO `json:"recent_checks"`
	GeneratedAt       string              `json:"generated_at"`
}

type AuditLogDTO struct {
	ID          uint64 `json:"id"`
	Actor       string `json:"actor"`
	Action      string `json:"action"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	BeforeValue string `json:"before_value,omitempty"`
	AfterValue  string `json:"after_value,omitempty"`
	CreatedAt   string `json:"created_at"`
}
