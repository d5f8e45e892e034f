// internal/domain/job/dto.go
package job

import "time"

type CreateJobRequest struct {
	TitleEn       string     `json:"title_en" binding:"required"`
	TitleAr       string     `json:"title_ar"`
	DescriptionEn string     `json:"description_en" binding:"required"`
	DescriptionAr string     `json:"description_ar"`
	Category      string     `json:"category" binding:"required"`
	Tags          []string   `json:"tags"`
	BudgetMin     *float64   `json:"budget_min"`
	BudgetMax     *float64   `json:"budget_max"`
	Currency      string     `json:"currency"`
	Deadline      *time.Time `json:"deadline"`
}

type UpdateJobRequest struct {
	TitleEn       string     `json:"title_en"`
	TitleAr       string     `json:"title_ar"`
	DescriptionEn string     `json:"description_en"`
	DescriptionAr string     `json:"description_ar"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	BudgetMin     *float64   `json:"budget_min"`
	BudgetMax     *float64   `json:"budget_max"`
	Deadline      *time.Time `json:"deadline"`
}

type ListFilters struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	ClientID int64  `form:"client_id"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type ListResponse struct {
	Jobs       []*Job `json:"jobs"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
