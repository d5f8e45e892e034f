// internal/domain/message/dto.go
package message

type SendMessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

type FlagMessageRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type QueueFilters struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

type QueueResponse struct {
	Messages   []*Message `json:"messages"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
