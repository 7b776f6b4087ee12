// Package geocoder wraps the external geocoding service (MapQuest-style
// REST API) behind a small client. The service resolves street addresses and
// postal codes to coordinates plus a normalized address.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"hobbyhub/internal/apperror"
	"hobbyhub/internal/config"

	"github.com/gofiber/fiber/v2"
)

// Result is one resolved address.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

// Geocoder resolves a free-form address or zipcode to a Result.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.GeocoderURL,
		apiKey:  cfg.GeocoderAPIKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// mapquest response shape, trimmed to the fields we read
type geocodeResponse struct {
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			Country    string `json:"adminArea1"`
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	endpoint := fmt.Sprintf("%s?key=%s&location=%s", c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding geocoding response: %w", err)
	}

	if len(decoded.Results) == 0 || len(decoded.Results[0].Locations) == 0 {
		return nil, apperror.Newf(fiber.StatusBadRequest, "Could not geocode address: %s", address)
	}

	loc := decoded.Results[0].Locations[0]
	formatted := loc.Street
	if formatted != "" && loc.City != "" {
		formatted += ", " + loc.City
	} else if loc.City != "" {
		formatted = loc.City
	}

	return &Result{
		Latitude:         loc.LatLng.Lat,
		Longitude:        loc.LatLng.Lng,
		FormattedAddress: formatted,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.PostalCode,
		Country:          loc.Country,
	}, nil
}
