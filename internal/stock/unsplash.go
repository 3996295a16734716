package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Client is the stock photo lookup contract. Implementations resolve a
// free-text query and aspect ratio to a single image URL and must degrade
// to a placeholder instead of failing.
type Client interface {
	FetchImage(ctx context.Context, query, aspectRatio string) (string, error)
}

const defaultBaseURL = "https://api.unsplash.com"

// UnsplashClient fetches a random stock photo from the Unsplash API.
type UnsplashClient struct {
	accessKey string
	client    *resty.Client
}

var _ Client = (*UnsplashClient)(nil)

// NewUnsplashClient creates an Unsplash-backed stock client.
func NewUnsplashClient(accessKey string) *UnsplashClient {
	return &UnsplashClient{
		accessKey: accessKey,
		client:    resty.New().SetTimeout(30 * time.Second).SetBaseURL(defaultBaseURL),
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (u *UnsplashClient) SetBaseURL(baseURL string) {
	u.client.SetBaseURL(baseURL)
}

type randomPhotoResponse struct {
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
}

// FetchImage returns the URL of a random photo matching the query, oriented
// to fit the aspect ratio. Any failure resolves to a placeholder URL sized
// for the requested ratio; the error return is always nil.
func (u *UnsplashClient) FetchImage(ctx context.Context, query, aspectRatio string) (string, error) {
	resp, err := u.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":       query,
			"orientation": Orientation(aspectRatio),
			"client_id":   u.accessKey,
		}).
		Get("/photos/random")

	if err != nil {
		logrus.Errorf("Unsplash request failed for query %q: %v", query, err)
		return PlaceholderURL(aspectRatio), nil
	}

	if resp.StatusCode() != 200 {
		logrus.Errorf("Unsplash API returned status %d for query %q", resp.StatusCode(), query)
		return PlaceholderURL(aspectRatio), nil
	}

	var photo randomPhotoResponse
	if err := json.Unmarshal(resp.Body(), &photo); err != nil {
		logrus.Errorf("Failed to parse Unsplash response: %v", err)
		return PlaceholderURL(aspectRatio), nil
	}

	if photo.URLs.Regular == "" {
		logrus.Error("Unsplash response missing image URL")
		return PlaceholderURL(aspectRatio), nil
	}

	return photo.URLs.Regular, nil
}

// Orientation maps an aspect ratio tag to one of the three orientations the
// Unsplash API understands.
func Orientation(aspectRatio string) string {
	switch aspectRatio {
	case "1:1":
		return "squarish"
	case "9:16", "2:3", "3:4":
		return "portrait"
	default:
		return "landscape"
	}
}

// PlaceholderURL builds a deterministically sized placeholder image
// reference for the given aspect ratio.
func PlaceholderURL(aspectRatio string) string {
	width, height := 1920, 1080
	switch aspectRatio {
	case "1:1":
		width, height = 1080, 1080
	case "9:16":
		width, height = 1080, 1920
	}
	return fmt.Sprintf("https://placehold.co/%dx%d/0f172a/94a3b8?text=Image+Not+Found", width, height)
}
