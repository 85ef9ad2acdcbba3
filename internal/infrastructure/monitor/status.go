package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Spool      bool      `json:"audit_spool"`
	SpoolSize  int       `json:"audit_spool_size"`
	LastCheck  time.Time `json:"last_check"`
}
