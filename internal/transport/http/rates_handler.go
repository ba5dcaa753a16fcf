package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ratecli/internal/config"
	apierrors "ratecli/internal/errors"
	"ratecli/internal/middleware"
)

type dateCtxKey struct{}

// matchQuery binds GET /rates/{date}. MaxOffset keeps the service default
// when the parameter is absent.
type matchQuery struct {
	MaxOffset int `query:"max_offset" validate:"gte=0,lte=3660"`
}

// rangeQuery binds GET /rates. Dates are ISO so a single value is never
// ambiguous.
type rangeQuery struct {
	Start string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// RatesHandler serves nearest-prior-date rate lookups.
type RatesHandler struct {
	service      RateService
	validator    *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRatesHandler creates a rates handler
func NewRatesHandler(service RateService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RatesHandler {
	return &RatesHandler{
		service:      service,
		validator:    middleware.NewQueryValidator(logger),
		logger:       logger.With(slog.String("component", "rates_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the rate routes
func (h *RatesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListRates)
	r.Route("/{date}", func(r chi.Router) {
		r.Use(h.DateCtx)
		r.Get("/", h.GetRate)
	})
	return r
}

// DateCtx parses the {date} URL parameter into the request context.
func (h *RatesHandler) DateCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "date")
		date, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("date", "date must be in the form 2006-01-02"))
			return
		}
		ctx := context.WithValue(r.Context(), dateCtxKey{}, date)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRate handles GET /api/v1/rates/{date}
func (h *RatesHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	date, _ := r.Context().Value(dateCtxKey{}).(time.Time)

	q := matchQuery{MaxOffset: h.service.DefaultMaxOffset()}
	if err := h.validator.DecodeQuery(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Match(r.Context(), date, q.MaxOffset)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "rate matched",
		slog.String("date", result.Date),
		slog.String("matched_date", result.MatchedDate),
		slog.Int("offset", result.Offset))
	render.JSON(w, r, result)
}

// ListRates handles GET /api/v1/rates?start=&end=
func (h *RatesHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	var q rangeQuery
	if err := h.validator.DecodeQuery(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Range(r.Context(), optionalDate(q.Start), optionalDate(q.End))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetFormat handles GET /api/v1/format
func (h *RatesHandler) GetFormat(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Format(r.Context()))
}

// Mount registers the rate and format routes on r.
func (h *RatesHandler) Mount(r chi.Router) {
	r.Mount(config.RatesEndpoint, h.Routes())
	r.Get(config.FormatEndpoint, h.GetFormat)
}

// optionalDate parses an already validated ISO date; empty means unbounded.
func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return &t
}
