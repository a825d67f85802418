package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starweaverbot/starweaver/internal/models"
)

// CreateUser сохраняет нового пользователя. Повторная вставка с тем же
// telegram_id игнорируется, поэтому метод безопасен при гонке вебхуков.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (telegram_id, username, first_name, last_name, free_readings_left)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (telegram_id) DO NOTHING;`
	if _, err := s.DB.ExecContext(ctx, query,
		user.TelegramID, user.Username, user.FirstName, user.LastName,
		user.FreeReadingsLeft); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByTelegramID возвращает пользователя по его telegram_id.
func (s *Storage) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	const op = "storage.GetUserByTelegramID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT telegram_id, username, first_name, last_name,
			      birth_date, birth_time, birth_place,
			      free_readings_left, subscription_active, subscription_end, created_at
			  FROM users
			  WHERE telegram_id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, telegramID)

	var username, firstName, lastName sql.NullString
	var birthDate, birthTime, birthPlace sql.NullString
	var subscriptionEnd sql.NullTime
	if err := row.Scan(&u.TelegramID, &username, &firstName, &lastName,
		&birthDate, &birthTime, &birthPlace,
		&u.FreeReadingsLeft, &u.SubscriptionActive, &subscriptionEnd, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u.Username = username.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.BirthDate = birthDate.String
	u.BirthTime = birthTime.String
	u.BirthPlace = birthPlace.String
	if subscriptionEnd.Valid {
		u.SubscriptionEnd = &subscriptionEnd.Time
	}
	return u, nil
}

// UpdateBirthData перезаписывает данные рождения пользователя.
func (s *Storage) UpdateBirthData(ctx context.Context, telegramID int64, data models.BirthData) error {
	const op = "storage.UpdateBirthData"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET birth_date = $1,
			      birth_time = $2,
			      birth_place = $3
			  WHERE telegram_id = $4`
	_, err := s.DB.ExecContext(ctx, query,
		data.BirthDate, data.BirthTime, data.BirthPlace, telegramID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeFreeReading атомарно уменьшает счётчик бесплатных раскладов.
// Счётчик не опускается ниже нуля: при нулевом остатке запрос не затрагивает
// строк и метод возвращает false без ошибки.
func (s *Storage) ConsumeFreeReading(ctx context.Context, telegramID int64) (bool, error) {
	const op = "storage.ConsumeFreeReading"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET free_readings_left = free_readings_left - 1
			  WHERE telegram_id = $1 AND free_readings_left > 0`
	res, err := s.DB.ExecContext(ctx, query, telegramID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rows > 0, nil
}

// ActivateSubscription включает подписку до указанной даты,
// перезаписывая любое предыдущее окно подписки.
func (s *Storage) ActivateSubscription(ctx context.Context, telegramID int64, end time.Time) error {
	const op = "storage.ActivateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_active = true,
			      subscription_end = $1
			  WHERE telegram_id = $2`
	_, err := s.DB.ExecContext(ctx, query, end, telegramID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindSubscriptionsExpiringTomorrow находит пользователей, у которых подписка
// истекает завтра, для отправки напоминаний.
func (s *Storage) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ReminderInfo, error) {
	const op = "storage.FindSubscriptionsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT telegram_id, COALESCE(first_name, ''), subscription_end
			  FROM users
			  WHERE subscription_active = true
			    AND subscription_end::DATE = CURRENT_DATE + INTERVAL '1 day';`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.ReminderInfo
	for rows.Next() {
		var info models.ReminderInfo
		if err = rows.Scan(&info.TelegramID, &info.FirstName, &info.SubscriptionEnd); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
