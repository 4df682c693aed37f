package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	"github.com/sharpcut/SC-SchedulingService/internal/infra/storage/schedule"
	"github.com/sharpcut/SC-SchedulingService/internal/integrations/catalogservice"
	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time { return p.now }

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (r *fakeAppointmentRepo) GetByBarberWithFilter(_ context.Context, _ domain.BarberDayFilter) ([]*domain.Appointment, error) {
	return r.appointments, r.err
}

type fakeScheduleRepo struct {
	schedule  domain.DaySchedule
	exception *domain.ScheduleException
}

func (r *fakeScheduleRepo) GetDaySchedule(_ context.Context, _ int64, _ int) (domain.DaySchedule, error) {
	return r.schedule, nil
}

func (r *fakeScheduleRepo) GetException(_ context.Context, _ int64, _ time.Time) (*domain.ScheduleException, error) {
	if r.exception == nil {
		return nil, schedule.ErrExceptionNotFound
	}
	return r.exception, nil
}

type fakeCatalog struct {
	barberErr error
	service   *catalogservice.Service
}

func (c *fakeCatalog) GetBarber(_ context.Context, id int64) (*catalogservice.Barber, error) {
	if c.barberErr != nil {
		return nil, c.barberErr
	}
	return &catalogservice.Barber{ID: id, Name: "Ivan", IsActive: true}, nil
}

func (c *fakeCatalog) GetService(_ context.Context, id int64) (*catalogservice.Service, error) {
	if c.service != nil {
		return c.service, nil
	}
	return &catalogservice.Service{ID: id, Name: "Haircut", DurationMinutes: 30, IsActive: true}, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func newTestUseCase(appts *fakeAppointmentRepo, sched *fakeScheduleRepo, catalog *fakeCatalog, now time.Time) *UseCase {
	uc := NewUseCase(appts, sched, catalog, 30, 0, 30, noopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}
	return uc
}

func workDay(start, end types.TimeString, breaks ...*domain.Break) domain.DaySchedule {
	return domain.DaySchedule{
		WorkHour: &domain.WorkHour{ID: 1, BarberID: 1, StartTime: start, EndTime: end},
		Breaks:   breaks,
	}
}

var (
	testNow  = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)  // понедельник
	testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) // будущая дата
)

func TestExecute_FullScenario(t *testing.T) {
	// WorkHour 09:00-18:00, Break 12:00-13:00, существующая запись 10:00 на 30 минут
	appts := &fakeAppointmentRepo{appointments: []*domain.Appointment{
		{
			ID:              7,
			BarberID:        1,
			StartTime:       "10:00",
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
			ServiceName:     "Haircut",
		},
	}}
	sched := &fakeScheduleRepo{schedule: workDay("09:00", "18:00",
		&domain.Break{StartTime: "12:00", EndTime: "13:00", Kind: domain.BreakKindLunch})}

	uc := newTestUseCase(appts, sched, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: testDate})
	require.NoError(t, err)

	byStart := make(map[types.TimeString]Slot, len(resp.Slots))
	for _, slot := range resp.Slots {
		byStart[slot.StartTime] = slot
	}

	// Кандидаты: 09:00-11:30 и 13:00-17:30, всего 16
	assert.Len(t, resp.Slots, 16)

	for _, start := range []types.TimeString{"09:00", "09:30", "10:30", "11:00", "11:30", "13:00", "13:30", "17:30"} {
		slot, ok := byStart[start]
		require.True(t, ok, "slot %s must be present", start)
		assert.True(t, slot.Available, "slot %s must be available", start)
		assert.Empty(t, slot.ConflictReason)
	}

	// 10:00 занят существующей записью
	conflicted, ok := byStart["10:00"]
	require.True(t, ok)
	assert.False(t, conflicted.Available)
	assert.Equal(t, "занято: Haircut (10:00-10:30)", conflicted.ConflictReason)

	// Внутри перерыва кандидатов нет
	for _, start := range []types.TimeString{"12:00", "12:30"} {
		_, ok := byStart[start]
		assert.False(t, ok, "slot %s must not be generated", start)
	}

	// Последний кандидат не вылезает за конец рабочего дня
	_, ok = byStart["18:00"]
	assert.False(t, ok)
}

func TestExecute_ClosedExceptionOverridesWorkHours(t *testing.T) {
	sched := &fakeScheduleRepo{
		schedule:  workDay("09:00", "18:00"),
		exception: &domain.ScheduleException{BarberID: 1, Date: testDate, IsClosed: true},
	}
	uc := newTestUseCase(&fakeAppointmentRepo{}, sched, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NoWorkHoursYieldsEmpty(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_BackToBackSlotIsAvailable(t *testing.T) {
	// Запись 10:00-10:30: слот 09:30 (конец ровно в 10:00) и слот 10:30
	// (начало ровно в конце записи) оба доступны
	appts := &fakeAppointmentRepo{appointments: []*domain.Appointment{
		{BarberID: 1, StartTime: "10:00", DurationMinutes: 30, Status: domain.StatusPending, ServiceName: "Shave"},
	}}
	sched := &fakeScheduleRepo{schedule: workDay("09:00", "12:00")}
	uc := newTestUseCase(appts, sched, &fakeCatalog{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: testDate})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		switch slot.StartTime {
		case "09:30", "10:30":
			assert.True(t, slot.Available, "slot %s must be available", slot.StartTime)
		case "10:00":
			assert.False(t, slot.Available)
		}
	}
}

func TestExecute_ReadIsIdempotent(t *testing.T) {
	appts := &fakeAppointmentRepo{appointments: []*domain.Appointment{
		{BarberID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed, ServiceName: "Coloring"},
	}}
	sched := &fakeScheduleRepo{schedule: workDay("09:00", "13:00",
		&domain.Break{StartTime: "11:00", EndTime: "11:30", Kind: domain.BreakKindCleaning})}
	uc := newTestUseCase(appts, sched, &fakeCatalog{}, testNow)

	req := &Request{BarberID: 1, ServiceID: 2, Date: testDate}
	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_MinNoticeFiltersTodaySlots(t *testing.T) {
	// Сейчас 10:10, минимальное уведомление 30 минут: первый допустимый
	// кандидат - 11:00 (10:40 не на сетке, 10:30 уже слишком поздно)
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 10, 10, 0, 0, time.UTC)

	sched := &fakeScheduleRepo{schedule: workDay("09:00", "12:00")}
	uc := newTestUseCase(&fakeAppointmentRepo{}, sched, &fakeCatalog{}, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: today})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:30"), resp.Slots[1].StartTime)
}

func TestExecute_PastDateRejected(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{schedule: workDay("09:00", "18:00")}, &fakeCatalog{}, testNow)

	past := testNow.AddDate(0, 0, -1)
	_, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: past})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_BarberErrors(t *testing.T) {
	tests := []struct {
		name      string
		barberErr error
		wantErr   error
	}{
		{name: "not found", barberErr: catalogservice.ErrBarberNotFound, wantErr: ErrBarberNotFound},
		{name: "inactive", barberErr: catalogservice.ErrBarberInactive, wantErr: ErrBarberInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{barberErr: tt.barberErr}
			uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, catalog, testNow)

			_, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: testDate})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeScheduleRepo{}, &fakeCatalog{}, testNow)

	_, err := uc.Execute(context.Background(), &Request{BarberID: 0, ServiceID: 2, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
