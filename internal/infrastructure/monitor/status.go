package monitor

import (
	"errors"
	"time"
)

type Status struct {
	Storage   bool      `json:"storage"`
	Driver    string    `json:"driver"`
	LastError string    `json:"last_error,omitempty"`
	LastCheck time.Time `json:"last_check"`
}

var errNoStore = errors.New("no storage configured")
