package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/restaurant-hours/backend/internal/domain"
	"github.com/restaurant-hours/backend/internal/hours"
)

// 在同一个事务中按名称获取或创建餐厅，并为每个条目获取或创建营业时间，
// 相同的输入重复执行不会产生任何变化
func (r *Repository) SaveParsedHours(ctx context.Context, name string, entries []hours.Entry) (*domain.SaveResult, error) {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res := &domain.SaveResult{}

	query := `
		INSERT INTO restaurants (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, name).Scan(&res.RestaurantID)
	switch {
	case err == nil:
		res.RestaurantCreated = true
	case errors.Is(err, sql.ErrNoRows):
		// 说明餐厅已经存在
		query = `SELECT id FROM restaurants WHERE name = $1`
		if err := tx.QueryRowContext(ctx, query, name).Scan(&res.RestaurantID); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	query = `
		INSERT INTO operating_hours (restaurant_id, day_of_week, open_time, close_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (restaurant_id, day_of_week, open_time, close_time) DO NOTHING
	`
	for _, e := range entries {
		result, err := tx.ExecContext(ctx, query, res.RestaurantID, int(e.Weekday), e.Open.String(), e.Close.String())
		if err != nil {
			return nil, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		res.WindowsCreated += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return res, nil
}

func (r *Repository) GetWindowsByWeekday(ctx context.Context, day hours.Weekday) ([]hours.Window, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT
			restaurant_id,
			to_char(open_time, 'HH24:MI:SS'),
			to_char(close_time, 'HH24:MI:SS')
		FROM operating_hours
		WHERE day_of_week = $1
	`
	rows, err := r.dbpool.QueryContext(ctx, query, int(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := make([]hours.Window, 0)
	for rows.Next() {
		var (
			id                int64
			openAt, closingAt string
		)
		if err := rows.Scan(&id, &openAt, &closingAt); err != nil {
			return nil, err
		}

		w := hours.Window{EntityID: id, Weekday: day}
		if w.Open, err = hours.ParseClock(openAt); err != nil {
			return nil, err
		}
		if w.Close, err = hours.ParseClock(closingAt); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return windows, nil
}

const restaurantColumns = `
	SELECT
		r.id,
		r.name,
		r.created_at,
		oh.id,
		oh.day_of_week,
		to_char(oh.open_time, 'HH24:MI:SS'),
		to_char(oh.close_time, 'HH24:MI:SS')
	FROM restaurants r
	LEFT JOIN operating_hours oh ON r.id = oh.restaurant_id
`

const restaurantOrder = `
	ORDER BY r.name, r.id, oh.day_of_week, oh.open_time, oh.close_time
`

func (r *Repository) GetAllRestaurants(ctx context.Context) ([]*domain.Restaurant, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, restaurantColumns+restaurantOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRestaurants(rows)
}

// 结果按名称排序，不存在的 id 会被忽略
func (r *Repository) GetRestaurantsByIDs(ctx context.Context, ids []int64) ([]*domain.Restaurant, error) {
	if len(ids) == 0 {
		return make([]*domain.Restaurant, 0), nil
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, restaurantColumns+`WHERE r.id = ANY($1)`+restaurantOrder, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRestaurants(rows)
}

// 餐厅不存在时返回 sql.ErrNoRows
func (r *Repository) GetRestaurantByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, restaurantColumns+`WHERE r.id = $1`+restaurantOrder, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants, err := scanRestaurants(rows)
	if err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return nil, sql.ErrNoRows
	}

	return restaurants[0], nil
}

// 营业时间通过级联删除
func (r *Repository) DeleteRestaurant(ctx context.Context, id int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func scanRestaurants(rows *sql.Rows) ([]*domain.Restaurant, error) {
	restaurants := make([]*domain.Restaurant, 0)
	byID := make(map[int64]*domain.Restaurant)

	for rows.Next() {
		var row struct {
			ID        int64
			Name      string
			CreatedAt time.Time

			HoursID   sql.NullInt64
			DayOfWeek sql.NullInt16
			OpenTime  sql.NullString
			CloseTime sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.CreatedAt,
			&row.HoursID,
			&row.DayOfWeek,
			&row.OpenTime,
			&row.CloseTime,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		restaurant, exists := byID[row.ID]
		if !exists {
			restaurant = &domain.Restaurant{
				ID:             row.ID,
				Name:           row.Name,
				CreatedAt:      row.CreatedAt,
				OperatingHours: make([]domain.OperatingHours, 0),
			}
			byID[row.ID] = restaurant
			restaurants = append(restaurants, restaurant)
		}

		// 说明这个餐厅没有任何营业时间，跳过解析
		if !row.HoursID.Valid {
			continue
		}

		open, err := hours.ParseClock(row.OpenTime.String)
		if err != nil {
			return nil, err
		}
		closing, err := hours.ParseClock(row.CloseTime.String)
		if err != nil {
			return nil, err
		}

		restaurant.OperatingHours = append(restaurant.OperatingHours, domain.OperatingHours{
			ID:           row.HoursID.Int64,
			RestaurantID: row.ID,
			DayOfWeek:    hours.Weekday(row.DayOfWeek.Int16),
			OpenTime:     open,
			CloseTime:    closing,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return restaurants, nil
}
