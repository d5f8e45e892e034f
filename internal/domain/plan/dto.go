// internal/domain/plan/dto.go
package plan

type CreatePlanRequest struct {
	PlanCode        string  `json:"plan_code" binding:"required"`
	NameEn          string  `json:"name_en" binding:"required"`
	NameAr          string  `json:"name_ar"`
	DescriptionEn   string  `json:"description_en"`
	DescriptionAr   string  `json:"description_ar"`
	Price           float64 `json:"price" binding:"gte=0"`
	Currency        string  `json:"currency"`
	BillingCycle    string  `json:"billing_cycle" binding:"required"`
	BidsPerMonth    *int32  `json:"bids_per_month"`
	FeaturedProfile bool    `json:"featured_profile"`
	IsPublic        bool    `json:"is_public"`
}

type UpdatePlanRequest struct {
	NameEn          string   `json:"name_en"`
	NameAr          string   `json:"name_ar"`
	DescriptionEn   string   `json:"description_en"`
	DescriptionAr   string   `json:"description_ar"`
	Price           *float64 `json:"price"`
	BidsPerMonth    *int32   `json:"bids_per_month"`
	FeaturedProfile *bool    `json:"featured_profile"`
	IsPublic        *bool    `json:"is_public"`
	Status          string   `json:"status"`
}

type ListFilters struct {
	Status   string `form:"status"`
	IsPublic *bool  `form:"is_public"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type ListResponse struct {
	Plans      []*SubscriptionPlan `json:"plans"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}

type SubscribeRequest struct {
	PlanID int64 `json:"plan_id" binding:"required"`
}
