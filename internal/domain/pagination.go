package domain

// PageableResponse é o envelope padronizado das listagens paginadas da
// API v1. O painel administrativo consome sempre o campo "content".
type PageableResponse struct {
	Content       interface{} `json:"content"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	Number        int         `json:"number"` // página atual (base zero)
	Size          int         `json:"size"`
}

// NewPageableResponse monta o envelope a partir da página solicitada.
func NewPageableResponse(content interface{}, total int64, page, size int) PageableResponse {
	if size <= 0 {
		size = 10
	}
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return PageableResponse{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Number:        page,
		Size:          size,
	}
}
