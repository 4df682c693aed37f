package catalogservice

import "errors"

var (
	// ErrBarberNotFound возвращается, когда барбер не найден в каталоге
	ErrBarberNotFound = errors.New("barber not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrBarberInactive возвращается для неактивного барбера:
	// он скрыт для новых бронирований, но история записей сохраняется
	ErrBarberInactive = errors.New("barber is not active")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
