package eventsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eventhub/internal/domain"
)

// Client calls the upstream EventHub REST API. It implements the
// EventDirectory, ParticipationAPI, ReviewAPI, SocialAPI, NotificationAPI,
// and ProfileAPI ports. The caller's bearer token is taken from the request
// context and forwarded as-is; the gateway holds no upstream credential of
// its own.
type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a Client for the API at baseURL.
func New(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, client: client}
}

// envelope is the upstream response shape: {data, error:{code,message}}.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *envelopeError  `json:"error"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// sentinelByCode maps upstream error codes to domain sentinels. Unknown
// codes stay unmapped and surface as a bare RemoteError.
var sentinelByCode = map[string]error{
	"not_found":           domain.ErrNotFound,
	"unauthorized":        domain.ErrUnauthenticated,
	"forbidden":           domain.ErrForbidden,
	"bad_request":         domain.ErrInvalidInput,
	"event_full":          domain.ErrEventFull,
	"not_joinable":        domain.ErrEventNotJoinable,
	"already_joined":      domain.ErrAlreadyJoined,
	"not_participant":     domain.ErrNotParticipant,
	"not_eligible":        domain.ErrNotEligible,
	"event_misconfigured": domain.ErrEventMisconfigured,
}

var sentinelByStatus = map[int]error{
	http.StatusNotFound:     domain.ErrNotFound,
	http.StatusUnauthorized: domain.ErrUnauthenticated,
	http.StatusForbidden:    domain.ErrForbidden,
	http.StatusBadRequest:   domain.ErrInvalidInput,
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := domain.CallerTokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return domain.NewTransportError("api", err)
	}
	defer resp.Body.Close()

	var env envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil {
		if resp.StatusCode >= 400 {
			return c.mapError(resp.StatusCode, nil)
		}
		return domain.NewTransportError("api", fmt.Errorf("decode response: %w", decodeErr))
	}

	if resp.StatusCode >= 400 || env.Error != nil {
		return c.mapError(resp.StatusCode, env.Error)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return domain.NewTransportError("api", fmt.Errorf("decode response data: %w", err))
		}
	}
	return nil
}

// mapError turns an upstream rejection into a RemoteError that wraps the
// matching sentinel and carries the server's message verbatim.
func (c *Client) mapError(status int, envErr *envelopeError) error {
	re := &domain.RemoteError{Source: "api"}
	if envErr != nil {
		re.Code = envErr.Code
		re.Message = envErr.Message
		if sentinel, ok := sentinelByCode[envErr.Code]; ok {
			re.Err = sentinel
			return re
		}
	}
	if sentinel, ok := sentinelByStatus[status]; ok {
		re.Err = sentinel
		return re
	}
	if re.Message == "" {
		re.Message = fmt.Sprintf("upstream api returned status %d", status)
	}
	return re
}

// eventDTO is the upstream wire shape of an event. The fee travels as a
// decimal amount and the participant count under _count, mirroring the
// backend's serialization; both are normalized into the domain model here.
type eventDTO struct {
	ID              string                `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Status          string                `json:"status"`
	LocationName    string                `json:"location_name"`
	LocationLat     float64               `json:"location_lat"`
	LocationLng     float64               `json:"location_lng"`
	StartsAt        time.Time             `json:"starts_at"`
	EndsAt          time.Time             `json:"ends_at"`
	JoiningFee      float64               `json:"joining_fee"`
	MinParticipants int                   `json:"min_participants"`
	MaxParticipants int                   `json:"max_participants"`
	HostID          string                `json:"host_id"`
	Host            *domain.UserSummary   `json:"host"`
	Participants    []*domain.Participant `json:"participants"`
	Count           struct {
		Participants int `json:"participants"`
	} `json:"_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *eventDTO) toDomain() *domain.Event {
	return &domain.Event{
		ID:               d.ID,
		Title:            d.Title,
		Description:      d.Description,
		Status:           domain.EventStatus(d.Status),
		LocationName:     d.LocationName,
		LocationLat:      d.LocationLat,
		LocationLng:      d.LocationLng,
		StartsAt:         d.StartsAt,
		EndsAt:           d.EndsAt,
		JoiningFeeCents:  int64(math.Round(d.JoiningFee * 100)),
		MinParticipants:  d.MinParticipants,
		MaxParticipants:  d.MaxParticipants,
		HostID:           d.HostID,
		Host:             d.Host,
		Participants:     d.Participants,
		ParticipantCount: d.Count.Participants,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// FetchEvent returns the full event record including its participant list.
func (c *Client) FetchEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	var dto eventDTO
	if err := c.do(ctx, http.MethodGet, "/events/"+eventID, nil, nil, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

type listEventsData struct {
	Items []*eventDTO `json:"items"`
	Total int         `json:"total"`
}

// ListEvents returns a page of events matching the filter.
func (c *Client) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.From != nil {
		q.Set("from", filter.From.Format(time.RFC3339))
	}
	if filter.To != nil {
		q.Set("to", filter.To.Format(time.RFC3339))
	}
	if filter.MinLat != nil && filter.MaxLat != nil && filter.MinLng != nil && filter.MaxLng != nil {
		q.Set("min_lat", strconv.FormatFloat(*filter.MinLat, 'f', -1, 64))
		q.Set("max_lat", strconv.FormatFloat(*filter.MaxLat, 'f', -1, 64))
		q.Set("min_lng", strconv.FormatFloat(*filter.MinLng, 'f', -1, 64))
		q.Set("max_lng", strconv.FormatFloat(*filter.MaxLng, 'f', -1, 64))
	}
	if filter.AvailableOnly {
		q.Set("available_only", "true")
	}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("page_size", strconv.Itoa(params.PageSize))

	var data listEventsData
	if err := c.do(ctx, http.MethodGet, "/events", q, nil, &data); err != nil {
		return nil, 0, err
	}
	events := make([]*domain.Event, 0, len(data.Items))
	for _, dto := range data.Items {
		events = append(events, dto.toDomain())
	}
	return events, data.Total, nil
}

// FetchEventReviews returns all reviews for the event.
func (c *Client) FetchEventReviews(ctx context.Context, eventID string) ([]*domain.Review, error) {
	var reviews []*domain.Review
	if err := c.do(ctx, http.MethodGet, "/events/"+eventID+"/reviews", nil, nil, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}

// FetchUserSummary returns the public profile of a user.
func (c *Client) FetchUserSummary(ctx context.Context, userID string) (*domain.UserSummary, error) {
	var user domain.UserSummary
	if err := c.do(ctx, http.MethodGet, "/users/"+userID, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// JoinEvent creates a join record for the caller. Payment proof, when
// present in opts, is forwarded untouched.
func (c *Client) JoinEvent(ctx context.Context, eventID string, opts domain.JoinOptions) error {
	return c.do(ctx, http.MethodPost, "/events/"+eventID+"/participants", nil, opts, nil)
}

// LeaveEvent removes the caller's join record.
func (c *Client) LeaveEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+eventID+"/participants/me", nil, nil, nil)
}

// SubmitReview submits the caller's review of the event.
func (c *Client) SubmitReview(ctx context.Context, eventID string, input domain.ReviewInput) error {
	return c.do(ctx, http.MethodPost, "/events/"+eventID+"/reviews", nil, input, nil)
}

// Follow makes the caller follow userID.
func (c *Client) Follow(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/users/"+userID+"/followers", nil, nil, nil)
}

// Unfollow makes the caller unfollow userID.
func (c *Client) Unfollow(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+userID+"/followers", nil, nil, nil)
}

type listUsersData struct {
	Items []*domain.UserSummary `json:"items"`
	Total int                   `json:"total"`
}

// ListFollowers returns a page of users following userID.
func (c *Client) ListFollowers(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.UserSummary, int, error) {
	return c.listUsers(ctx, "/users/"+userID+"/followers", params)
}

// ListFollowing returns a page of users userID follows.
func (c *Client) ListFollowing(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.UserSummary, int, error) {
	return c.listUsers(ctx, "/users/"+userID+"/following", params)
}

func (c *Client) listUsers(ctx context.Context, path string, params domain.PaginationParams) ([]*domain.UserSummary, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("page_size", strconv.Itoa(params.PageSize))
	var data listUsersData
	if err := c.do(ctx, http.MethodGet, path, q, nil, &data); err != nil {
		return nil, 0, err
	}
	if data.Items == nil {
		data.Items = []*domain.UserSummary{}
	}
	return data.Items, data.Total, nil
}

type listNotificationsData struct {
	Items []*domain.Notification `json:"items"`
	Total int                    `json:"total"`
}

// ListNotifications returns a page of the caller's notifications.
func (c *Client) ListNotifications(ctx context.Context, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("page_size", strconv.Itoa(params.PageSize))
	var data listNotificationsData
	if err := c.do(ctx, http.MethodGet, "/notifications", q, nil, &data); err != nil {
		return nil, 0, err
	}
	if data.Items == nil {
		data.Items = []*domain.Notification{}
	}
	return data.Items, data.Total, nil
}

// MarkNotificationRead acknowledges one notification for the caller.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return c.do(ctx, http.MethodPost, "/notifications/"+notificationID+"/read", nil, nil, nil)
}

// Me returns the caller's own profile.
func (c *Client) Me(ctx context.Context) (*domain.UserSummary, error) {
	var user domain.UserSummary
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
