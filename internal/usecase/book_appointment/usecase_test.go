package book_appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	"github.com/sharpcut/SC-SchedulingService/internal/infra/storage/schedule"
	"github.com/sharpcut/SC-SchedulingService/internal/integrations/catalogservice"
	"github.com/sharpcut/SC-SchedulingService/internal/integrations/notifyservice"
	"github.com/sharpcut/SC-SchedulingService/pkg/simpletxmanager"
	"github.com/sharpcut/SC-SchedulingService/pkg/txmanager"
	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time { return p.now }

// memoryAppointmentRepo потокобезопасный in-memory репозиторий записей
type memoryAppointmentRepo struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
	nextID       int64
}

func (r *memoryAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	created := *appt
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.appointments = append(r.appointments, &created)
	return &created, nil
}

func (r *memoryAppointmentRepo) GetByBarberWithFilter(_ context.Context, filter domain.BarberDayFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Appointment, 0, len(r.appointments))
	for _, appt := range r.appointments {
		if appt.BarberID != filter.BarberID {
			continue
		}
		if !filter.IncludeInactive && !appt.IsOccupying() {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
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
	price := 1500.0
	return &catalogservice.Service{ID: id, Name: "Haircut", DurationMinutes: 30, Price: &price, IsActive: true}, nil
}

type fakeNotify struct {
	mu     sync.Mutex
	events []notifyservice.AppointmentBookedEvent
}

func (n *fakeNotify) AppointmentBooked(_ context.Context, event notifyservice.AppointmentBookedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

// serializingTxManager сериализует конкурентные транзакции мьютексом -
// эквивалент SERIALIZABLE для in-memory репозитория
type serializingTxManager struct {
	mu  sync.Mutex
	err error
}

func (m *serializingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var (
	testNow  = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc     *UseCase
	repo   *memoryAppointmentRepo
	notify *fakeNotify
}

func newFixture(sched *fakeScheduleRepo, txm TransactionManager) *fixture {
	repo := &memoryAppointmentRepo{}
	notify := &fakeNotify{}
	uc := NewUseCase(repo, sched, &fakeCatalog{}, notify, txm, 30, 0, 30, 5*time.Second, noopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return &fixture{uc: uc, repo: repo, notify: notify}
}

func workDay(start, end types.TimeString, breaks ...*domain.Break) *fakeScheduleRepo {
	return &fakeScheduleRepo{schedule: domain.DaySchedule{
		WorkHour: &domain.WorkHour{ID: 1, BarberID: 1, StartTime: start, EndTime: end},
		Breaks:   breaks,
	}}
}

func validRequest(startTime types.TimeString) *Request {
	return &Request{
		BarberID:       1,
		ServiceID:      2,
		CustomerUserID: 42,
		CustomerName:   "Петр",
		CustomerPhone:  "+79991234567",
		Date:           testDate,
		StartTime:      startTime,
	}
}

func TestExecute_CreatesConfirmedAppointment(t *testing.T) {
	f := newFixture(workDay("09:00", "18:00"), &serializingTxManager{})

	resp, err := f.uc.Execute(context.Background(), validRequest("10:00"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	assert.NotZero(t, resp.ID)
}

func TestExecute_ConcurrentRequestsForSameSlot(t *testing.T) {
	// Несколько конкурентных запросов на один слот: ровно один должен
	// закоммититься, остальные - получить конфликт
	f := newFixture(workDay("09:00", "18:00"), &serializingTxManager{})

	const workers = 8

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest("10:00")
			req.CustomerUserID = int64(100 + i)
			_, errs[i] = f.uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}

	assert.Equal(t, 1, successes)

	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	assert.Len(t, f.repo.appointments, 1)
}

func TestExecute_BackToBackAppointmentsDoNotConflict(t *testing.T) {
	f := newFixture(workDay("09:00", "18:00"), &serializingTxManager{})

	_, err := f.uc.Execute(context.Background(), validRequest("10:00"))
	require.NoError(t, err)

	// Запись, начинающаяся ровно в конце существующей, не конфликтует
	_, err = f.uc.Execute(context.Background(), validRequest("10:30"))
	require.NoError(t, err)

	// И запись, заканчивающаяся ровно в начале существующей
	_, err = f.uc.Execute(context.Background(), validRequest("09:30"))
	require.NoError(t, err)
}

func TestExecute_ConflictMentionsOccupiedInterval(t *testing.T) {
	f := newFixture(workDay("09:00", "18:00"), &serializingTxManager{})

	_, err := f.uc.Execute(context.Background(), validRequest("10:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest("10:00"))
	require.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Contains(t, err.Error(), "Haircut (10:00-10:30)")
}

func TestExecute_OffGridStartTimeRejected(t *testing.T) {
	f := newFixture(workDay("09:00", "18:00"), &serializingTxManager{})

	_, err := f.uc.Execute(context.Background(), validRequest("10:10"))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_SlotSpanningBreakRejected(t *testing.T) {
	// Перерыв 12:00-13:00: старт 11:30 при длительности 60 минут вылезает
	// за границу рабочего окна
	sched := workDay("09:00", "18:00",
		&domain.Break{StartTime: "12:00", EndTime: "13:00", Kind: domain.BreakKindLunch})
	f := newFixture(sched, &serializingTxManager{})

	longService := &catalogservice.Service{ID: 2, Name: "Coloring", DurationMinutes: 60, IsActive: true}
	f.uc.catalogClient = &fakeCatalog{service: longService}

	_, err := f.uc.Execute(context.Background(), validRequest("11:30"))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	// А 11:00 при тех же условиях помещается целиком
	_, err = f.uc.Execute(context.Background(), validRequest("11:00"))
	assert.NoError(t, err)
}

func TestExecute_ClosedExceptionRejectsBooking(t *testing.T) {
	sched := workDay("09:00", "18:00")
	sched.exception = &domain.ScheduleException{BarberID: 1, Date: testDate, IsClosed: true}
	f := newFixture(sched, &serializingTxManager{})

	_, err := f.uc.Execute(context.Background(), validRequest("10:00"))
	assert.ErrorIs(t, err, ErrBarberClosed)
}

func TestExecute_DayOffRejectsBooking(t *testing.T) {
	f := newFixture(&fakeScheduleRepo{}, &serializingTxManager{})

	_, err := f.uc.Execute(context.Background(), validRequest("10:00"))
	assert.ErrorIs(t, err, ErrBarberClosed)
}

func TestExecute_TooLateToBookToday(t *testing.T) {
	f := newFixture(workDay("09:00", "18:00"), &serializingTxManager{})
	// Сейчас 09:50, минимальное уведомление 30 минут: 10:00 уже поздно
	f.uc.timeProvider = &fakeTimeProvider{now: time.Date(2026, 3, 10, 9, 50, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), validRequest("10:00"))
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_SerializationFailureMapsToTransient(t *testing.T) {
	// Оба менеджера транзакций сигнализируют исчерпание повторов одним sentinel,
	// поэтому маппинг в ErrTransientStore не зависит от того, какой подключен
	tests := []struct {
		name   string
		txmErr error
	}{
		{name: "metrics-wrapped manager", txmErr: fmt.Errorf("%w: deadlock", txmanager.ErrSerializationFailure)},
		{name: "plain manager", txmErr: fmt.Errorf("%w: deadlock", simpletxmanager.ErrSerializationFailure)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txm := &serializingTxManager{err: tt.txmErr}
			f := newFixture(workDay("09:00", "18:00"), txm)

			_, err := f.uc.Execute(context.Background(), validRequest("10:00"))
			assert.ErrorIs(t, err, ErrTransientStore)
		})
	}
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
			f := newFixture(workDay("09:00", "18:00"), &serializingTxManager{})
			f.uc.catalogClient = &fakeCatalog{barberErr: tt.barberErr}

			_, err := f.uc.Execute(context.Background(), validRequest("10:00"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(workDay("09:00", "18:00"), &serializingTxManager{})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "zero barber", mutate: func(r *Request) { r.BarberID = 0 }},
		{name: "zero service", mutate: func(r *Request) { r.ServiceID = 0 }},
		{name: "zero customer", mutate: func(r *Request) { r.CustomerUserID = 0 }},
		{name: "blank name", mutate: func(r *Request) { r.CustomerName = "   " }},
		{name: "blank phone", mutate: func(r *Request) { r.CustomerPhone = "" }},
		{name: "zero date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "empty start time", mutate: func(r *Request) { r.StartTime = "" }},
		{name: "malformed start time", mutate: func(r *Request) { r.StartTime = "25:99" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("10:00")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_PastDateRejected(t *testing.T) {
	f := newFixture(workDay("09:00", "18:00"), &serializingTxManager{})

	req := validRequest("10:00")
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
