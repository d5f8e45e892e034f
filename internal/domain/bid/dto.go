// internal/domain/bid/dto.go
package bid

type SubmitBidRequest struct {
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Currency     string  `json:"currency"`
	DeliveryDays int     `json:"delivery_days" binding:"required,gt=0"`
	CoverNote    string  `json:"cover_note"`
}

type ListFilters struct {
	JobID        int64  `form:"job_id"`
	ConsultantID int64  `form:"consultant_id"`
	ClientID     int64  `form:"client_id"`
	Status       string `form:"status"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

type ListResponse struct {
	Bids       []*Bid `json:"bids"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
