package model

// Estado values a report can hold.
const (
	EstadoPendiente = "Pendiente"
	EstadoReportado = "Reportado"
	EstadoResuelto  = "Resuelto"
)

// ValidEstado reports whether s is one of the three estado values.
func ValidEstado(s string) bool {
	return s == EstadoPendiente || s == EstadoReportado || s == EstadoResuelto
}

// Report is a QA tracking record. JSON tags match the wire names the clients
// and the exported spreadsheet use.
type Report struct {
	Id        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Reporte   string `json:"reporte" gorm:"not null"`
	Fecha     string `json:"fecha" gorm:"not null"`
	Solicitud string `json:"solicitud" gorm:"not null"`
	Proyecto  string `json:"proyecto" gorm:"not null"`
	Resultado string `json:"resultado"`
	Estado    string `json:"estado" gorm:"not null;default:Pendiente"`
	UserId    int64  `json:"user_id,omitempty" gorm:"index"`
	CreatedAt int64  `json:"created_at,omitempty" gorm:"autoCreateTime"`
}

func (Report) TableName() string {
	return "reportes"
}
