package transport

import "github.com/fastygo/spicecms/domain"

// EnquiryStatusRequest is the body of POST /api/enquiries/status.
type EnquiryStatusRequest struct {
	ID     string               `json:"id"`
	Status domain.EnquiryStatus `json:"status"`
}
