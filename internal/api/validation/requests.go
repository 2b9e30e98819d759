package validation

// SaveScoreRequest is the body of a raw or reviewed score save.
type SaveScoreRequest struct {
	Product string `json:"product" validate:"required,product"`
	Score   *int   `json:"score" validate:"required,gte=0,lte=100000"`
}

// AvailabilityRequest is the body of an availability change.
type AvailabilityRequest struct {
	Unavailable *bool `json:"unavailable" validate:"required"`
}

// BatchUpdate is one entry of a batch score request.
type BatchUpdate struct {
	MemberID string `json:"memberId" validate:"required,max=64"`
	TeamCode string `json:"teamCode" validate:"required,max=64"`
	Product  string `json:"product" validate:"required,product"`
	Score    *int   `json:"score" validate:"required,gte=0,lte=100000"`
	Reviewed bool   `json:"reviewed"`
}

// BatchRequest is the body of a batch score request.
type BatchRequest struct {
	Updates []BatchUpdate `json:"updates" validate:"required,min=1,max=500,dive"`
}

// InvalidateRequest is the body of a cache invalidation.
type InvalidateRequest struct {
	Day       string `json:"day" validate:"omitempty,datetime=2006-01-02"`
	Team      string `json:"team" validate:"omitempty,max=64"`
	Directory bool   `json:"directory"`
}

// LeaderboardQuery holds the leaderboard query parameters.
type LeaderboardQuery struct {
	Period string `query:"period" validate:"omitempty,oneof=today yesterday week month range"`
	Start  string `query:"start" validate:"required_if=Period range,omitempty,datetime=2006-01-02"`
	End    string `query:"end" validate:"required_if=Period range,omitempty,datetime=2006-01-02"`
}
