package dto

// DashboardMetrics aggregates today's attendance and the pending leave queue
// for the caller's scope.
type DashboardMetrics struct {
	Date         string `json:"date"`
	PresentToday int    `json:"present_today"`
	AbsentToday  int    `json:"absent_today"`
	OnLeaveToday int    `json:"on_leave_today"`
	PendingLeave int    `json:"pending_leave"`
}
