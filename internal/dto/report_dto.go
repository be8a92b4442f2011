package dto

type CreateReportRequest struct {
	Category    string    `json:"category"`
	Location    []float64 `json:"location"` // [longitude, latitude]
	Description string    `json:"description"`
	Severity    int       `json:"severity"`
	Photos      []string  `json:"photos,omitempty"` // data URLs or plain URLs
}

type ListReportsQuery struct {
	Lat      float64 `query:"lat"`
	Lng      float64 `query:"lng"`
	Radius   float64 `query:"radius"` // meters
	Status   string  `query:"status"`
	Category string  `query:"category"`
	Limit    int     `query:"limit"`
	Page     int     `query:"page"`
}

type BanUserRequest struct {
	Banned bool   `json:"banned"`
	Reason string `json:"reason"`
}

type ClientConfigResponse struct {
	Categories        []string `json:"categories"`
	SeverityMin       int      `json:"severity_min"`
	SeverityMax       int      `json:"severity_max"`
	MaxPhotos         int      `json:"max_photos"`
	RetentionDays     int      `json:"retention_days"`
	VerifyMinConfirms int      `json:"verify_min_confirms"`
	VerifyMinScore    int      `json:"verify_min_score"`
	RejectMinDenials  int      `json:"reject_min_denials"`
	RejectMaxScore    int      `json:"reject_max_score"`
}
