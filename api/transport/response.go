package transport

import "encoding/json"

// Ack is returned by the replace and status endpoints.
type Ack struct {
	Success bool `json:"success"`
}

// OK is the only Ack the backend sends; failures use an error Envelope.
var OK = Ack{Success: true}

// Envelope wraps error and health payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
	}
}

// NewError returns an error envelope with optional data.
func NewError(code string, err interface{}, data interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Data:   data,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
