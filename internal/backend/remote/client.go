// Package remote talks to a tracking API over HTTP/JSON. It implements
// tracking.Source and tracking.Backend and also backs the trackctl CLI.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/your-org/campustrack/internal/models"
	"github.com/your-org/campustrack/internal/tracking"
	"github.com/your-org/campustrack/pkg/dto"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API rooted at baseURL (e.g. http://host:8080/v1).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Load fetches persons and cameras and assembles a snapshot.
func (c *Client) Load(ctx context.Context) (*models.Snapshot, error) {
	persons, err := doGetJSON[dto.PersonListResponse](ctx, c, "persons", nil)
	if err != nil {
		return nil, err
	}
	cameras, err := doGetJSON[dto.CameraListResponse](ctx, c, "cameras", nil)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		Persons:  make([]models.PersonRecord, 0, len(persons.Persons)),
		Cameras:  make([]models.CameraRecord, 0, len(cameras.Cameras)),
		LoadedAt: time.Now().UTC(),
	}
	for _, p := range persons.Persons {
		snap.Persons = append(snap.Persons, personFromDTO(p))
	}
	for _, cam := range cameras.Cameras {
		snap.Cameras = append(snap.Cameras, models.CameraRecord{
			ID:           cam.ID,
			Status:       models.CameraStatus(cam.Status),
			Occupancy:    cam.Occupancy,
			LastActivity: cam.LastActivity,
		})
	}
	return snap, nil
}

// Persons returns the server-side filtered person list.
func (c *Client) Persons(ctx context.Context, raw tracking.RawCriteria) (*dto.PersonListResponse, error) {
	q := url.Values{}
	setIf(q, "date_from", raw.DateFrom)
	setIf(q, "date_to", raw.DateTo)
	setIf(q, "camera", raw.Camera)
	setIf(q, "duration", raw.Duration)
	setIf(q, "max_duration", raw.MaxDuration)
	setIf(q, "status", raw.Status)
	setIf(q, "person_id", raw.PersonID)
	return doGetJSON[dto.PersonListResponse](ctx, c, "persons", q)
}

func (c *Client) Cameras(ctx context.Context) (*dto.CameraListResponse, error) {
	return doGetJSON[dto.CameraListResponse](ctx, c, "cameras", nil)
}

func (c *Client) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	return doGetJSON[dto.StatsResponse](ctx, c, "stats", nil)
}

func (c *Client) History(ctx context.Context) (*dto.HistoryResponse, error) {
	return doGetJSON[dto.HistoryResponse](ctx, c, "search/history", nil)
}

// Refresh asks the server to reload its snapshot.
func (c *Client) Refresh(ctx context.Context) (*dto.RefreshResponse, error) {
	return doJSON[dto.RefreshResponse](ctx, c, http.MethodPost, "snapshot/refresh", nil, nil, "")
}

func (c *Client) SearchByFace(ctx context.Context, img models.FaceImage) ([]models.SearchResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	filename := img.Filename
	if filename == "" {
		filename = "probe.jpg"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, fmt.Errorf("could not write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close writer: %w", err)
	}

	resp, err := doJSON[dto.SearchResponse](ctx, c, http.MethodPost, "search/face", nil, &body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return resultsFromDTO(resp.Results), nil
}

func (c *Client) SearchByID(ctx context.Context, id string) ([]models.SearchResult, error) {
	resp, err := doGetJSON[dto.SearchResponse](ctx, c, "search/id/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return resultsFromDTO(resp.Results), nil
}

func (c *Client) SearchByTime(ctx context.Context, r models.TimeRange) ([]models.SearchResult, error) {
	q := url.Values{}
	q.Set("from", r.From)
	q.Set("to", r.To)
	setIf(q, "camera", r.Camera)

	resp, err := doGetJSON[dto.SearchResponse](ctx, c, "search/time", q)
	if err != nil {
		return nil, err
	}
	return resultsFromDTO(resp.Results), nil
}

func doGetJSON[T any](ctx context.Context, c *Client, endpoint string, query url.Values) (*T, error) {
	return doJSON[T](ctx, c, http.MethodGet, endpoint, query, nil, "")
}

// doJSON performs a request and decodes a JSON response. Network failures and
// non-2xx statuses become *tracking.TransportError, except 400 which becomes
// *tracking.ValidationError.
func doJSON[T any](ctx context.Context, c *Client, method, endpoint string, query url.Values, body io.Reader, contentType string) (*T, error) {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	op := method + " /" + endpoint

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &tracking.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &tracking.TransportError{Op: op, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr dto.ErrorResponse
		_ = json.Unmarshal(data, &apiErr)
		if resp.StatusCode == http.StatusBadRequest {
			msg := apiErr.Error
			if msg == "" {
				msg = "invalid request"
			}
			return nil, &tracking.ValidationError{Field: apiErr.Field, Message: msg}
		}
		msg := apiErr.Error
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return nil, &tracking.TransportError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	return &result, nil
}

func personFromDTO(p dto.PersonResponse) models.PersonRecord {
	return models.PersonRecord{
		ID:           p.ID,
		Image:        p.Image,
		Camera:       p.Camera,
		FirstSeen:    p.FirstSeen,
		LastSeen:     p.LastSeen,
		Duration:     p.Duration,
		TotalCameras: p.TotalCameras,
		Status:       models.PersonStatus(p.Status),
		Confidence:   p.Confidence,
	}
}

func resultsFromDTO(in []dto.SearchResultResponse) []models.SearchResult {
	out := make([]models.SearchResult, 0, len(in))
	for _, r := range in {
		out = append(out, models.SearchResult{
			ID:         r.ID,
			Image:      r.Image,
			Camera:     r.Camera,
			Time:       r.Time,
			Confidence: r.Confidence,
			Duration:   r.Duration,
			MatchType:  models.MatchType(r.MatchType),
		})
	}
	return out
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
