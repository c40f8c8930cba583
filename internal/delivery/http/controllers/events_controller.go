package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type EventsController struct {
	Logger  *slog.Logger
	Service domain.DirectoryService
}

func NewEventsController(logger *slog.Logger, svc domain.DirectoryService) *EventsController {
	return &EventsController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEventsData is the data payload for GET /events.
type ListEventsData struct {
	Items []*domain.Event        `json:"items"`
	Meta  helpers.PaginationMeta `json:"meta"`
}

// ListEventsSuccessResponse is the success envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  *ListEventsData   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// List godoc
// @Summary Browse events
// @Description Lists events with optional text search, date range (calendar view), geo box (map view), and availability filters.
// @Tags events
// @Produce json
// @Param search query string false "Free-text search"
// @Param from query string false "RFC3339 lower bound on start time"
// @Param to query string false "RFC3339 upper bound on start time"
// @Param min_lat query number false "Geo box: minimum latitude"
// @Param max_lat query number false "Geo box: maximum latitude"
// @Param min_lng query number false "Geo box: minimum longitude"
// @Param max_lng query number false "Geo box: maximum longitude"
// @Param available_only query bool false "Only events that are not full"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /events [get]
func (c *EventsController) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseEventFilter(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &ListEventsData{
		Items: events,
		Meta:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetEventSuccessResponse is the success envelope for GET /events/{eventID} (200).
type GetEventSuccessResponse struct {
	Data  *domain.EventDetail `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// Get godoc
// @Summary Event detail
// @Description Returns the event with host profile and reviews, annotated with whether the current identity may join or review. Anonymous callers get the public view.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /events/{eventID} [get]
func (c *EventsController) Get(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}

	ident := middleware.IdentityFromContext(r.Context())
	detail, err := c.Service.EventDetail(r.Context(), ident, eventID)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

func parseEventFilter(w http.ResponseWriter, r *http.Request) (domain.EventFilter, bool) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Search:        q.Get("search"),
		AvailableOnly: q.Get("available_only") == "true",
	}
	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid from")
			return filter, false
		}
		filter.From = &t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid to")
			return filter, false
		}
		filter.To = &t
	}
	for name, dst := range map[string]**float64{
		"min_lat": &filter.MinLat,
		"max_lat": &filter.MaxLat,
		"min_lng": &filter.MinLng,
		"max_lng": &filter.MaxLng,
	} {
		if s := q.Get(name); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
				return filter, false
			}
			*dst = &v
		}
	}
	return filter, true
}
