package monitor

import "time"

type Status struct {
	Storage   bool      `json:"storage"`
	Backend   string    `json:"backend"`
	Redis     bool      `json:"redis"`
	LastCheck time.Time `json:"last_check"`
}
