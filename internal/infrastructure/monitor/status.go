package monitor

import "time"

type Status struct {
	Backend       bool      `json:"backend"`
	Storage       bool      `json:"storage"`
	StorageDriver string    `json:"storage_driver"`
	LastCheck     time.Time `json:"last_check"`
}
