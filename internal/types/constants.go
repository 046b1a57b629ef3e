package types

const ContextUserKey = "user"

// Status codes embedded in every response body.
const (
	StatusCodeSuccess = 5000
	StatusCodeFailure = 5001
)

type Envelope struct {
	StatusCode int         `json:"status_code"`
	Detail     string      `json:"detail"`
	Data       interface{} `json:"data,omitempty"`
}

type Page struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}
