package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/TopTalentDev/tutor-booking/models"
	"github.com/TopTalentDev/tutor-booking/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the marketplace REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a backend client. The token, when non-empty, is sent as a
// bearer Authorization header on every request.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     utils.GetLogger().Named("api"),
	}
}

// GetUserAvailability fetches a tutor's slots between from and to, expressed
// in the given IANA timezone. A missing day resolves to an empty Availability,
// never an error.
func (c *Client) GetUserAvailability(ctx context.Context, tutor uuid.UUID, from, to time.Time, timezone string) (models.Availability, error) {
	q := url.Values{}
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	q.Set("timezone", timezone)

	var availability models.Availability
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/tutors/%s/availability?%s", tutor, q.Encode()), nil, &availability)
	if err != nil {
		return models.Availability{}, err
	}
	if availability.Timezone == "" {
		availability.Timezone = timezone
	}
	return availability, nil
}

type lessonsResponse struct {
	Lessons []models.Lesson `json:"lessons"`
}

// GetLessons fetches the authenticated user's lessons between from and to.
func (c *Client) GetLessons(ctx context.Context, from, to time.Time) ([]models.Lesson, error) {
	q := url.Values{}
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	q.Set("state", "all")

	var resp lessonsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/lessons?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lessons, nil
}

// CreateLesson submits a booking request. Domain rejections come back as
// *Error with a raw type code.
func (c *Client) CreateLesson(ctx context.Context, req models.BookingRequest) (models.Lesson, error) {
	var lesson models.Lesson
	if err := c.do(ctx, http.MethodPost, "/v1/lessons", req, &lesson); err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}

// ProposeLessonChange sends a partial change proposal for an existing lesson.
func (c *Client) ProposeLessonChange(ctx context.Context, lessonID uuid.UUID, change models.LessonChange) (models.Lesson, error) {
	var lesson models.Lesson
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/lessons/%s/propose", lessonID), change, &lesson); err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, data)
		c.logger.Debug("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Bool("structured", apiErr.Structured))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
