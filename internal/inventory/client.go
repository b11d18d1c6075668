package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
)

// Client is the contract the booking core consumes from the remote
// flight-inventory service. Lookup failures are reported as
// domain.ErrFlightNotFound, everything else as domain.ErrInventoryUnavailable.
type Client interface {
	GetFlightByID(ctx context.Context, id int64) (*domain.FlightSnapshot, error)
	UpdateInventory(ctx context.Context, snapshot *domain.FlightSnapshot) (string, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(cfg config.InventoryConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type flightPayload struct {
	ID             int64  `json:"id"`
	AirlineName    string `json:"airlineName"`
	FromPlace      string `json:"fromPlace"`
	ToPlace        string `json:"toPlace"`
	ScheduleDate   string `json:"scheduleDate"`
	DepartureTime  string `json:"departureTime"`
	ArrivalTime    string `json:"arrivalTime"`
	PriceCents     int64  `json:"priceCents"`
	TotalSeats     int    `json:"totalSeats"`
	AvailableSeats int    `json:"availableSeats"`
}

const scheduleDateLayout = "2006-01-02"

func (c *HTTPClient) GetFlightByID(ctx context.Context, id int64) (*domain.FlightSnapshot, error) {
	url := fmt.Sprintf("%s/api/v1.0/flight/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build inventory request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get flight %d: %v", domain.ErrInventoryUnavailable, id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: flight %d", domain.ErrFlightNotFound, id)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: get flight %d: unexpected status %d", domain.ErrInventoryUnavailable, id, resp.StatusCode)
	}

	var payload flightPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode flight %d: %v", domain.ErrInventoryUnavailable, id, err)
	}
	return payload.toSnapshot()
}

func (c *HTTPClient) UpdateInventory(ctx context.Context, snapshot *domain.FlightSnapshot) (string, error) {
	body, err := json.Marshal(fromSnapshot(snapshot))
	if err != nil {
		return "", fmt.Errorf("encode inventory update: %w", err)
	}

	url := c.baseURL + "/api/v1.0/flight/updateInventory"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build inventory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: update flight %d: %v", domain.ErrInventoryUnavailable, snapshot.ID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: flight %d", domain.ErrFlightNotFound, snapshot.ID)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: update flight %d: unexpected status %d", domain.ErrInventoryUnavailable, snapshot.ID, resp.StatusCode)
	}

	ack, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read inventory ack: %v", domain.ErrInventoryUnavailable, err)
	}
	return string(ack), nil
}

func (p flightPayload) toSnapshot() (*domain.FlightSnapshot, error) {
	scheduleDate, err := time.Parse(scheduleDateLayout, p.ScheduleDate)
	if err != nil {
		return nil, fmt.Errorf("%w: parse schedule date %q: %v", domain.ErrInventoryUnavailable, p.ScheduleDate, err)
	}
	return &domain.FlightSnapshot{
		ID:             p.ID,
		AirlineName:    p.AirlineName,
		FromPlace:      p.FromPlace,
		ToPlace:        p.ToPlace,
		ScheduleDate:   scheduleDate,
		DepartureTime:  p.DepartureTime,
		ArrivalTime:    p.ArrivalTime,
		PriceCents:     p.PriceCents,
		TotalSeats:     p.TotalSeats,
		AvailableSeats: p.AvailableSeats,
	}, nil
}

func fromSnapshot(s *domain.FlightSnapshot) flightPayload {
	return flightPayload{
		ID:             s.ID,
		AirlineName:    s.AirlineName,
		FromPlace:      s.FromPlace,
		ToPlace:        s.ToPlace,
		ScheduleDate:   s.ScheduleDate.Format(scheduleDateLayout),
		DepartureTime:  s.DepartureTime,
		ArrivalTime:    s.ArrivalTime,
		PriceCents:     s.PriceCents,
		TotalSeats:     s.TotalSeats,
		AvailableSeats: s.AvailableSeats,
	}
}

var _ Client = (*HTTPClient)(nil)
