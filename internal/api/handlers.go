package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/liturgical-calendar/internal/calendar"
	"github.com/zapponejosh/liturgical-calendar/internal/config"
	"github.com/zapponejosh/liturgical-calendar/internal/engine"
	"github.com/zapponejosh/liturgical-calendar/internal/liturgy"
	"github.com/zapponejosh/liturgical-calendar/internal/logger"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	engine *engine.Engine
	cache  Cache
	health HealthChecker
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance. A nil cache disables
// caching; a nil health checker skips the database check.
func NewHandlers(eng *engine.Engine, cache Cache, health HealthChecker, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		engine: eng,
		cache:  cache,
		health: health,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.health != nil {
		if err := h.health.Health(ctx); err != nil {
			logger.Error(ctx, h.logger, "health check failed", err)
			WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeHealthCheckFailed)
			return
		}
	}
	if _, err := h.engine.Catalog(ctx); err != nil {
		logger.Error(ctx, h.logger, "reference data unavailable", err)
		WriteError(w, http.StatusServiceUnavailable, "Reference data unavailable", CodeReferenceDataError)
		return
	}

	WriteSuccess(w, map[string]string{
		"status":      "healthy",
		"data_source": h.cfg.DataSource,
	})
}

// GetCalendar handles GET /api/v1/calendar
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	h.serveCalendar(w, r, "", "")
}

// GetNationalCalendar handles GET /api/v1/calendar/nation/{nation}
func (h *Handlers) GetNationalCalendar(w http.ResponseWriter, r *http.Request) {
	h.serveCalendar(w, r, chi.URLParam(r, "nation"), "")
}

// GetDiocesanCalendar handles GET /api/v1/calendar/diocese/{diocese}
func (h *Handlers) GetDiocesanCalendar(w http.ResponseWriter, r *http.Request) {
	h.serveCalendar(w, r, "", chi.URLParam(r, "diocese"))
}

func (h *Handlers) serveCalendar(w http.ResponseWriter, r *http.Request, nation, diocese string) {
	p, err := h.parseParams(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	p.Nation = nation
	p.Diocese = diocese

	result, err := h.compute(r.Context(), p)
	if err != nil {
		h.writeComputeError(w, r, err)
		return
	}
	WriteSuccess(w, result)
}

// DayResponse lists what a single date holds.
type DayResponse struct {
	Date         string                 `json:"date"`
	Locale       string                 `json:"locale"`
	Celebrations []*liturgy.Celebration `json:"celebrations"`
	Advisories   []liturgy.Advisory     `json:"advisories"`
}

// GetDate handles GET /api/v1/calendar/date/{date}?nation=&diocese=
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	date, err := calendar.ParseDateString(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	p, err := h.parseParams(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	p.Year = date.Year()
	p.YearType = engine.YearCivil
	p.Nation = r.URL.Query().Get("nation")
	p.Diocese = r.URL.Query().Get("diocese")

	result, err := h.compute(r.Context(), p)
	if err != nil {
		h.writeComputeError(w, r, err)
		return
	}

	day := DayResponse{
		Date:         calendar.FormatDate(date),
		Locale:       result.Locale,
		Celebrations: result.On(date),
		Advisories:   []liturgy.Advisory{},
	}
	for _, a := range result.Advisories {
		if calendar.SameDay(a.Date, date) {
			day.Advisories = append(day.Advisories, a)
		}
	}
	WriteSuccess(w, day)
}

// NationSummary describes a nation that has a calendar.
type NationSummary struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	WiderRegion string           `json:"wider_region,omitempty"`
	Locales     []string         `json:"locales"`
	Dioceses    []DioceseSummary `json:"dioceses"`
}

// DioceseSummary is a diocese of the index.
type DioceseSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HasCalendar bool   `json:"has_calendar"`
}

// ListCalendars handles GET /api/v1/calendars
func (h *Handlers) ListCalendars(w http.ResponseWriter, r *http.Request) {
	cat, err := h.engine.Catalog(r.Context())
	if err != nil {
		logger.Error(r.Context(), h.logger, "failed to load reference data", err)
		WriteInternalError(w, "Failed to load reference data")
		return
	}

	nations := make([]NationSummary, 0, len(cat.Nations))
	for _, id := range cat.NationIDs() {
		n := cat.Nations[id]
		summary := NationSummary{
			ID:          n.ID,
			Name:        n.Name,
			WiderRegion: n.WiderRegion,
			Locales:     n.Locales,
			Dioceses:    []DioceseSummary{},
		}
		for _, d := range cat.DiocesesOf(id) {
			_, ok := cat.Dioceses[d.ID]
			summary.Dioceses = append(summary.Dioceses, DioceseSummary{ID: d.ID, Name: d.Name, HasCalendar: ok})
		}
		nations = append(nations, summary)
	}

	WriteSuccess(w, map[string]any{
		"locales": cat.Proper.Locales,
		"nations": nations,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// compute serves a calendar from the cache or the engine.
func (h *Handlers) compute(ctx context.Context, p engine.Params) (*engine.Result, error) {
	if h.cache == nil {
		return h.engine.Compute(ctx, p)
	}

	key := CacheKey(p, h.now(), h.cfg.CacheTTL)
	if result, ok := h.cache.Get(key); ok {
		logger.FromContext(ctx, h.logger).Debug("calendar cache hit", slog.Int("year", p.Year))
		return result, nil
	}
	result, err := h.engine.Compute(ctx, p)
	if err != nil {
		return nil, err
	}
	h.cache.Put(key, result)
	return result, nil
}

// parseParams reads the calendar query parameters.
func (h *Handlers) parseParams(r *http.Request) (engine.Params, error) {
	q := r.URL.Query()
	p := engine.Params{
		Year:   h.now().Year(),
		Locale: h.cfg.DefaultLocale,
	}

	if s := q.Get("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("invalid year %q", s)
		}
		p.Year = year
	}

	yearType, err := engine.ParseYearType(q.Get("year_type"))
	if err != nil {
		return p, fmt.Errorf("invalid year_type %q: use CIVIL or LITURGICAL", q.Get("year_type"))
	}
	p.YearType = yearType

	if s := q.Get("locale"); s != "" {
		p.Locale = s
	}

	if s := q.Get("epiphany"); s != "" {
		v, err := liturgy.ParseEpiphany(s)
		if err != nil {
			return p, err
		}
		p.Epiphany = &v
	}
	if s := q.Get("ascension"); s != "" {
		v, err := liturgy.ParseAscension(s)
		if err != nil {
			return p, err
		}
		p.Ascension = &v
	}
	if s := q.Get("corpus_christi"); s != "" {
		v, err := liturgy.ParseCorpusChristi(s)
		if err != nil {
			return p, err
		}
		p.CorpusChristi = &v
	}
	if s := q.Get("eternal_high_priest"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return p, fmt.Errorf("invalid eternal_high_priest %q", s)
		}
		p.EternalHighPriest = &v
	}
	return p, nil
}

// writeComputeError maps engine errors onto HTTP responses.
func (h *Handlers) writeComputeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrYearOutOfRange), errors.Is(err, engine.ErrInvalidParams):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, engine.ErrUnsupportedLocale):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeUnsupportedLocale)
	case errors.Is(err, engine.ErrUnknownNation), errors.Is(err, engine.ErrUnknownDiocese):
		WriteNotFound(w, err.Error())
	default:
		logger.Error(r.Context(), h.logger, "failed to compute calendar", err)
		WriteInternalError(w, "Failed to compute calendar")
	}
}
