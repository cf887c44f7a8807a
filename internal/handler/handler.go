package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/restaurant-hours/backend/internal/cache"
	"github.com/restaurant-hours/backend/internal/config"
	"github.com/restaurant-hours/backend/internal/domain"
	"github.com/restaurant-hours/backend/internal/hours"
	"github.com/restaurant-hours/backend/internal/ingest"
	"github.com/restaurant-hours/backend/internal/metrics"
)

type Store interface {
	ingest.Store
	GetWindowsByWeekday(ctx context.Context, day hours.Weekday) ([]hours.Window, error)
	GetRestaurantsByIDs(ctx context.Context, ids []int64) ([]*domain.Restaurant, error)
	GetAllRestaurants(ctx context.Context) ([]*domain.Restaurant, error)
	GetRestaurantByID(ctx context.Context, id int64) (*domain.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id int64) error
}

type Cache interface {
	GetOpen(ctx context.Context, at hours.Instant) (cache.Lookup, error)
	SetOpen(ctx context.Context, gen int64, at hours.Instant, ids []int64) error
	Invalidate(ctx context.Context) error
}

// *amqp.Channel 满足 Publisher 接口
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	store      Store
	cache      Cache
	publisher  Publisher
	ingester   *ingest.Ingester
	translator ut.Translator
	limiter    *ipRateLimiter

	Mux *chi.Mux
}

// cache 可以为 nil，此时所有营业查询都直接访问数据库
func NewHandler(cfg *config.Config, store Store, cache Cache, publisher Publisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	mode, err := ingest.ParseMode(cfg.Ingest.Mode)
	if err != nil {
		return nil, err
	}

	metrics.Register()

	return &Handler{
		validate:   validate,
		config:     cfg,
		store:      store,
		cache:      cache,
		publisher:  publisher,
		ingester:   ingest.New(store, cfg.Ingest.Workers).WithMode(mode),
		translator: trans,
		limiter:    newIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.rateLimit)

	h.Mux.Handle("/metrics", promhttp.Handler())

	h.Mux.Route("/restaurants", func(r chi.Router) {
		r.Get("/", h.GetOpenRestaurants)
		r.Post("/", h.CreateRestaurant)
		r.Get("/all", h.GetAllRestaurants)
		r.Post("/import", h.ImportRestaurants)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.restaurant)
			r.Get("/", h.GetRestaurant)
			r.Delete("/", h.DeleteRestaurant)
		})
	})
}
