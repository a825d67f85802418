package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/starweaverbot/starweaver/internal/models"
)

// CreateReading сохраняет новый расклад и возвращает его ID.
// Снимок данных рождения сериализуется в JSONB, nil хранится как NULL.
func (s *Storage) CreateReading(ctx context.Context, reading models.Reading) (string, error) {
	const op = "storage.CreateReading"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var birthData any
	if reading.BirthData != nil {
		raw, err := json.Marshal(reading.BirthData)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		birthData = raw
	}

	var newID string
	query := `INSERT INTO readings (telegram_id, question, reading, birth_data)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		reading.TelegramID, reading.Question, reading.Reading, birthData).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListReadings возвращает расклады пользователя, новые первыми.
func (s *Storage) ListReadings(ctx context.Context, telegramID int64, limit int) ([]*models.Reading, error) {
	const op = "storage.ListReadings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, telegram_id, question, reading, birth_data, created_at
			  FROM readings
			  WHERE telegram_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, telegramID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Reading
	for rows.Next() {
		var r models.Reading
		var birthData sql.NullString
		if err = rows.Scan(&r.ID, &r.TelegramID, &r.Question, &r.Reading,
			&birthData, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if birthData.Valid {
			var data models.BirthData
			if err = json.Unmarshal([]byte(birthData.String), &data); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			r.BirthData = &data
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
