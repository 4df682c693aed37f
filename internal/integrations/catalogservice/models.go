package catalogservice

// Barber модель барбера из CatalogService
type Barber struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	StaffUserID int64  `json:"staff_user_id"` // учетная запись барбера для доступа к своему календарю
	IsActive    bool   `json:"is_active"`
}

// Service модель услуги из CatalogService.
// Для движка расписания значима только длительность;
// цена денормализуется в запись для истории.
type Service struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price"`
	IsActive        bool     `json:"is_active"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
