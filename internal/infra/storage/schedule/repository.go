package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	"github.com/sharpcut/SC-SchedulingService/pkg/dbmetrics"
	"github.com/sharpcut/SC-SchedulingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов (см. dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий расписания барберов: рабочие часы, перерывы
// и исключения на конкретные даты. Данные пишет back-office, движок
// расписания их только читает.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWorkHour получает рабочие часы барбера на день недели.
// На (барбер, день недели) существует не больше одной строки.
func (r *Repository) GetWorkHour(ctx context.Context, barberID int64, weekday int) (*domain.WorkHour, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barber_id",
		"weekday",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).
		From("work_hours").
		Where(squirrel.Eq{"barber_id": barberID, "weekday": weekday}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkHour - build select query: %v", ErrBuildQuery, err)
	}

	var wh domain.WorkHour
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&wh.ID,
		&wh.BarberID,
		&wh.Weekday,
		&wh.StartTime,
		&wh.EndTime,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrWorkHourNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkHour - scan work hour: %v", ErrScanRow, err)
	}

	wh.CreatedAt = createdAt.Time
	wh.UpdatedAt = updatedAt.Time

	return &wh, nil
}

// GetBreaks получает перерывы барбера на день недели, отсортированные по началу.
// Перерывов может быть несколько; пересекающиеся строки допустимы,
// объединение выполняет вычислительное ядро.
func (r *Repository) GetBreaks(ctx context.Context, barberID int64, weekday int) ([]*domain.Break, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barber_id",
		"weekday",
		"start_time",
		"end_time",
		"kind",
		"created_at",
		"updated_at",
	).
		From("breaks").
		Where(squirrel.Eq{"barber_id": barberID, "weekday": weekday}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make([]*domain.Break, 0)
	for rows.Next() {
		var br domain.Break
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&br.ID,
			&br.BarberID,
			&br.Weekday,
			&br.StartTime,
			&br.EndTime,
			&br.Kind,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBreaks - scan row: %v", ErrScanRow, err)
		}

		br.CreatedAt = createdAt.Time
		br.UpdatedAt = updatedAt.Time
		breaks = append(breaks, &br)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - rows error: %v", ErrScanRow, err)
	}

	return breaks, nil
}

// GetException получает исключение расписания барбера на конкретную дату
func (r *Repository) GetException(ctx context.Context, barberID int64, date time.Time) (*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barber_id",
		"exception_date",
		"is_closed",
		"note",
		"created_at",
		"updated_at",
	).
		From("schedule_exceptions").
		Where(squirrel.Eq{"barber_id": barberID, "exception_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetException - build select query: %v", ErrBuildQuery, err)
	}

	var exc domain.ScheduleException
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exc.ID,
		&exc.BarberID,
		&exc.Date,
		&exc.IsClosed,
		&exc.Note,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetException - scan exception: %v", ErrScanRow, err)
	}

	exc.CreatedAt = createdAt.Time
	exc.UpdatedAt = updatedAt.Time

	return &exc, nil
}

// GetDaySchedule собирает расписание барбера на день недели:
// рабочие часы и перерывы одним вызовом. Отсутствие рабочих часов
// не является ошибкой - возвращается пустое расписание (выходной).
func (r *Repository) GetDaySchedule(ctx context.Context, barberID int64, weekday int) (domain.DaySchedule, error) {
	wh, err := r.GetWorkHour(ctx, barberID, weekday)
	if err != nil {
		if err == ErrWorkHourNotFound {
			return domain.DaySchedule{}, nil
		}
		return domain.DaySchedule{}, err
	}

	breaks, err := r.GetBreaks(ctx, barberID, weekday)
	if err != nil {
		return domain.DaySchedule{}, err
	}

	return domain.DaySchedule{WorkHour: wh, Breaks: breaks}, nil
}
