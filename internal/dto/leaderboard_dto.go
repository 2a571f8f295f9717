package dto

type LeaderboardEntry struct {
	Position    int     `json:"position"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	Grade       *string `json:"grade,omitempty"`
	Points      int     `json:"points"`
	Image       *string `json:"profile_image,omitempty"`
}
