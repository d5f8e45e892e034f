// internal/domain/invoice/dto.go
package invoice

type ListFilters struct {
	ClientID     int64  `form:"client_id"`
	ConsultantID int64  `form:"consultant_id"`
	Status       string `form:"status"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

type ListResponse struct {
	Invoices   []*Invoice `json:"invoices"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
