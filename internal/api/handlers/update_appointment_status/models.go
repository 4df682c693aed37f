package update_appointment_status

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Статусы, которые барбер выставляет вручную по итогам визита
const (
	statusCompleted = "completed"
	statusNoShow    = "no_show"
)
