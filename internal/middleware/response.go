package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// Pagination is the derived page metadata attached to list responses. Total
// comes from the replicated totalCount column on the first row of the result
// set, never from a second query.
type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	Total       int  `json:"total"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// NewPagination derives the page flags from the request's page window and the
// grand total: hasNext iff page*pageSize < total, hasPrevious iff page > 1.
func NewPagination(page, pageSize, total int) *Pagination {
	return &Pagination{
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		HasNext:     page*pageSize < total,
		HasPrevious: page > 1,
	}
}

type responseMetadata struct {
	*Pagination
	Timestamp string `json:"timestamp"`
}

type successEnvelope struct {
	Success  bool             `json:"success"`
	Data     any              `json:"data"`
	Metadata responseMetadata `json:"metadata"`
}

// RespondSuccess writes the success envelope. Pagination is optional and only
// present on list endpoints.
func RespondSuccess(w http.ResponseWriter, data any, pagination *Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(successEnvelope{
		Success: true,
		Data:    data,
		Metadata: responseMetadata{
			Pagination: pagination,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		},
	})
}
