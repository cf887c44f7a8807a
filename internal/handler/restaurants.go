package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/restaurant-hours/backend/internal/domain"
	"github.com/restaurant-hours/backend/internal/hours"
	"github.com/restaurant-hours/backend/internal/ingest"
	"github.com/restaurant-hours/backend/internal/metrics"
)

const (
	msgMissingDatetime = `Please provide a datetime parameter "datetime"`
	msgInvalidDatetime = "Invalid datetime format. Use YYYY-MM-DD HH:MM:SS"
)

// GET /restaurants?datetime=YYYY-MM-DD HH:MM:SS
func (h *Handler) GetOpenRestaurants(w http.ResponseWriter, r *http.Request) {
	at, err := hours.ParseInstant(r.URL.Query().Get("datetime"))
	if err != nil {
		switch {
		case errors.Is(err, hours.ErrMissingInstant):
			h.errorResponse(w, r, http.StatusBadRequest, codeMissingQueryParameter, msgMissingDatetime)
		default:
			h.errorResponse(w, r, http.StatusBadRequest, codeInvalidQueryInstant, msgInvalidDatetime)
		}
		return
	}

	ids, err := h.openRestaurantIDs(r.Context(), at)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	restaurants, err := h.store.GetRestaurantsByIDs(r.Context(), ids)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "open restaurants", map[string]any{
		"openRestaurants": restaurants,
	})
}

// 先查缓存，缓存出错时记录日志并回退到数据库
func (h *Handler) openRestaurantIDs(ctx context.Context, at hours.Instant) ([]int64, error) {
	if h.cache == nil {
		metrics.IncOpenQuery("disabled")
		return h.computeOpen(ctx, at)
	}

	lookup, err := h.cache.GetOpen(ctx, at)
	switch {
	case err != nil:
		slog.Warn("无法读取营业餐厅缓存", "error", err)
		metrics.IncOpenQuery("error")
		return h.computeOpen(ctx, at)
	case lookup.Hit:
		metrics.IncOpenQuery("hit")
		return lookup.IDs, nil
	}

	metrics.IncOpenQuery("miss")
	ids, err := h.computeOpen(ctx, at)
	if err != nil {
		return nil, err
	}
	if err := h.cache.SetOpen(ctx, lookup.Generation, at, ids); err != nil {
		slog.Warn("无法写入营业餐厅缓存", "error", err)
	}
	return ids, nil
}

func (h *Handler) computeOpen(ctx context.Context, at hours.Instant) ([]int64, error) {
	windows, err := h.store.GetWindowsByWeekday(ctx, at.Weekday)
	if err != nil {
		return nil, err
	}
	return hours.OpenEntities(windows, at), nil
}

func (h *Handler) invalidateCache(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		slog.Warn("无法清除营业餐厅缓存", "error", err)
	}
}

func (h *Handler) GetAllRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.store.GetAllRestaurants(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "restaurants", restaurants)
}

func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant := r.Context().Value(RestaurantCtx).(*domain.Restaurant)
	h.successResponse(w, r, http.StatusOK, "restaurant", restaurant)
}

func (h *Handler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant := r.Context().Value(RestaurantCtx).(*domain.Restaurant)

	if err := h.store.DeleteRestaurant(r.Context(), restaurant.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 说明在查询过程中餐厅被删除了
			h.notFound(w, r, "restaurant not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateCache(r.Context())
	h.successResponse(w, r, http.StatusOK, "restaurant deleted", nil)
}

// 同步导入一条餐厅名称和营业时间
func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required,max=255"`
		Hours string `json:"hours" validate:"required"`
		Mode  string `json:"mode" validate:"omitempty,oneof=best-effort all-or-nothing"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ingester := h.ingester
	if req.Mode != "" {
		ingester = ingester.WithMode(ingest.Mode(req.Mode))
	}

	res, err := ingester.IngestRow(r.Context(), ingest.Row{Line: 1, Name: req.Name, Hours: req.Hours})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if res.Persisted {
		h.invalidateCache(r.Context())
	}

	if res.Err != nil {
		switch {
		case errors.Is(res.Err, ingest.ErrEmptyName):
			h.badRequest(w, r, res.Err)
		default:
			h.writeJSON(w, r, http.StatusUnprocessableEntity, Response{
				Success: false,
				Code:    codeInvalidHours,
				Message: res.Error,
				Data:    res,
			})
		}
		return
	}

	restaurant, err := h.store.GetRestaurantByID(r.Context(), res.Saved.RestaurantID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Saved.RestaurantCreated {
		status = http.StatusCreated
	}
	h.successResponse(w, r, status, "restaurant saved", restaurant)
}

// 将批次发送到消息队列，由 ingest worker 处理
func (h *Handler) ImportRestaurants(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode     string `json:"mode" validate:"omitempty,oneof=best-effort all-or-nothing"`
		ReportTo string `json:"reportTo" validate:"omitempty,email"`
		Rows     []struct {
			Name  string `json:"name" validate:"required,max=255"`
			Hours string `json:"hours" validate:"required"`
		} `json:"rows" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	msg := domain.IngestMessage{
		BatchID:  uuid.NewString(),
		Mode:     req.Mode,
		ReportTo: req.ReportTo,
		Rows:     make([]domain.IngestMessageRow, 0, len(req.Rows)),
	}
	if msg.Mode == "" {
		msg.Mode = string(h.ingester.Mode())
	}
	for _, row := range req.Rows {
		msg.Rows = append(msg.Rows, domain.IngestMessageRow{Name: row.Name, Hours: row.Hours})
	}

	body, err := json.Marshal(msg)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.publisher.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.BatchID,
			Body:         body,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusAccepted, "import queued", map[string]any{
		"batchID": msg.BatchID,
		"rows":    len(msg.Rows),
	})
}
