package requester

import (
	"net/http"
)

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// OK reports a 2xx status code
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}
