package request

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
}

// UpdateItemRequest carries a partial patch; absent fields keep their
// stored values.
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
