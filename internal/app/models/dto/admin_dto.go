package dto

// UpdateUserRoleRequest represents an admin role change request
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=MEMBER HOST ADMIN"`
}

// UpdateUserStatusRequest represents an admin account status change request
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE SUSPENDED"`
}

// PlatformStatsResponse represents aggregate platform counters
type PlatformStatsResponse struct {
	TotalUsers          int64 `json:"totalUsers"`
	TotalCommunities    int64 `json:"totalCommunities"`
	TotalEvents         int64 `json:"totalEvents"`
	UpcomingEvents      int64 `json:"upcomingEvents"`
	TotalRegistrations  int64 `json:"totalRegistrations"`
	ActiveRegistrations int64 `json:"activeRegistrations"`
}
