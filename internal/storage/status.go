package storage

import (
	"context"
	"fmt"

	"github.com/starweaverbot/starweaver/internal/models"
)

// CreateStatusCheck сохраняет запись проверки доступности и возвращает её.
func (s *Storage) CreateStatusCheck(ctx context.Context, clientName string) (*models.StatusCheck, error) {
	const op = "storage.CreateStatusCheck"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	check := &models.StatusCheck{ClientName: clientName}
	query := `INSERT INTO status_checks (client_name)
			  VALUES ($1)
			  RETURNING id, timestamp;`
	if err := s.DB.QueryRowContext(ctx, query, clientName).Scan(&check.ID, &check.Timestamp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return check, nil
}

// ListStatusChecks возвращает записи проверок доступности, новые первыми.
func (s *Storage) ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error) {
	const op = "storage.ListStatusChecks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, client_name, timestamp
			  FROM status_checks
			  ORDER BY timestamp DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.StatusCheck
	for rows.Next() {
		var check models.StatusCheck
		if err = rows.Scan(&check.ID, &check.ClientName, &check.Timestamp); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &check)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
