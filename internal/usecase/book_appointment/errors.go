package book_appointment

import "errors"

var (
	// ErrBarberNotFound возвращается, когда барбер не найден
	ErrBarberNotFound = errors.New("book_appointment: barber not found")

	// ErrBarberInactive возвращается, когда барбер неактивен
	ErrBarberInactive = errors.New("book_appointment: barber is not active")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("book_appointment: service not found")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("book_appointment: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("book_appointment: date is too far in the future")

	// ErrBarberClosed возвращается, когда барбер не работает в указанную дату
	ErrBarberClosed = errors.New("book_appointment: barber is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время начала не лежит на сетке слотов
	// или услуга не помещается в рабочее окно
	ErrInvalidTimeSlot = errors.New("book_appointment: invalid time slot")

	// ErrSlotUnavailable возвращается, когда выбранный слот пересекается с существующей записью
	ErrSlotUnavailable = errors.New("book_appointment: slot is not available")

	// ErrTooLateToBook возвращается, когда запись нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("book_appointment: too late to book this slot")

	// ErrTransientStore возвращается, когда коммит не удался по временной причине
	// (конфликт сериализации после исчерпания ретраев, таймаут). Безопасно повторить запрос.
	ErrTransientStore = errors.New("book_appointment: transient storage error, retry the request")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
