// internal/domain/user/dto.go
package user

type UpdateProfileRequest struct {
	NameEn     string   `json:"name_en"`
	NameAr     string   `json:"name_ar"`
	BioEn      string   `json:"bio_en"`
	BioAr      string   `json:"bio_ar"`
	Company    string   `json:"company"`
	Country    string   `json:"country"`
	City       string   `json:"city"`
	Skills     []string `json:"skills"`
	HourlyRate *float64 `json:"hourly_rate"`
}

type ListFilters struct {
	Role     string `form:"role"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type ListItem struct {
	IdentityID   int64  `json:"identity_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	NameEn       string `json:"name_en"`
	NameAr       string `json:"name_ar,omitempty"`
	Verification string `json:"verification"`
}

type ListResponse struct {
	Users      []*ListItem `json:"users"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}
