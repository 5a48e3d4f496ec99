package domain

import "time"

// Prescription es la fila de auditoría de un flujo de agendamiento completado.
type Prescription struct {
	ID                   int64     `json:"id"`
	UserName             string    `json:"user_name"`
	UserID               string    `json:"user_id"`
	PrescriptionImageURL string    `json:"prescription_image_url"`
	OnlineGuidanceTime   string    `json:"online_guidance_time"`
	MedicineDeliveryTime string    `json:"medicine_delivery_time"`
	PrescriptionChecked  bool      `json:"prescription_checked"`
	GuidanceExecuted     bool      `json:"guidance_executed"`
	DeliveryExecuted     bool      `json:"delivery_executed"`
	CreatedAt            time.Time `json:"created_at"`
}
