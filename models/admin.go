package models

// AdminLoginRequest authenticates the booking dashboard.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse carries the bearer token for admin routes.
type AdminLoginResponse struct {
	Token string `json:"token"`
}

// BookingAnalytics is a coarse dashboard summary.
type BookingAnalytics struct {
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"by_status"`
	ByService map[string]int64 `json:"by_service"`
}
