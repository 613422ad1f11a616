package model

import "time"

// Audit entry kinds.
const (
	AuditAccion = "accion"
	AuditError  = "error"
)

// AuditEntry is an append-only trail line: who did what on which endpoint.
// Entries are never updated or deleted except by retention cleanup.
type AuditEntry struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username"`
	Kind      string    `json:"kind" gorm:"index"`
	Detail    string    `json:"detail"`
	Endpoint  string    `json:"endpoint"`
	Ip        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditEntry) TableName() string {
	return "bitacora"
}
