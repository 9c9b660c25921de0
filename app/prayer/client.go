package prayer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
)

// Times holds one day of prayer times as provided upstream; the calculation
// method and correctness of the values are the provider's concern.
type Times struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// Notifier is the platform alarm collaborator. Fire-and-forget; delivery
// guarantees are the platform's concern.
type Notifier interface {
	Schedule(id int, title, body string, at time.Time) bool
	Cancel(id int)
}

// Client fetches daily prayer times from the configured provider. Responses
// are cached per day and position so repeated lookups stay local.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   cache.New(12*time.Hour, time.Hour),
	}
}

type timingsPayload struct {
	Data struct {
		Timings Times `json:"timings"`
	} `json:"data"`
}

// TimesFor fetches (or serves from cache) the prayer times for a calendar
// day at the given position.
func (c *Client) TimesFor(ctx context.Context, day time.Time, lat, lon float64) (*Times, error) {
	key := fmt.Sprintf("%s:%.3f:%.3f", day.Format("2006-01-02"), lat, lon)
	if cached, found := c.cache.Get(key); found {
		times := cached.(Times)
		return &times, nil
	}

	u := fmt.Sprintf("%s/%s?%s", c.baseURL, day.Format("02-01-2006"), url.Values{
		"latitude":  {fmt.Sprintf("%f", lat)},
		"longitude": {fmt.Sprintf("%f", lon)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching prayer times: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prayer times provider returned status %d", resp.StatusCode)
	}

	var payload timingsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding prayer times: %w", err)
	}

	c.cache.Set(key, payload.Data.Timings, cache.DefaultExpiration)
	return &payload.Data.Timings, nil
}
