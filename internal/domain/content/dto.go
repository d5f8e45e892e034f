// internal/domain/content/dto.go
package content

type UpsertSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

type UpsertPageRequest struct {
	Slug      string `json:"slug" binding:"required"`
	TitleEn   string `json:"title_en" binding:"required"`
	TitleAr   string `json:"title_ar"`
	BodyEn    string `json:"body_en" binding:"required"`
	BodyAr    string `json:"body_ar"`
	Published bool   `json:"published"`
}

type ReorderSectionsRequest struct {
	// Section IDs in the desired display order
	SectionIDs []int64 `json:"section_ids" binding:"required,min=1"`
}
