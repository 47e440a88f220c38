package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tracking-service/internal/entities"
	"tracking-service/internal/service/routing"
)

const (
	defaultBaseURL = "https://maps.googleapis.com"
	defaultTimeout = 10 * time.Second

	trafficModelBestGuess = "best_guess"
	maxErrorBody          = 512
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// MapsGateway клиент Google Maps Web Services (JSON API).
// Повторов здесь нет: их делают фоновые задачи, которые знают, какие отказы временные.
type MapsGateway struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  httpClient
	limiter limiter
}

func New(cfg Config, client httpClient, limiter limiter) *MapsGateway {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &MapsGateway{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		timeout: timeout,
		client:  client,
		limiter: limiter,
	}
}

// MatrixElement одна ячейка матрицы расстояний.
type MatrixElement struct {
	Found                    bool
	DistanceMeters           int64
	DurationSeconds          int64
	DurationInTrafficSeconds int64
}

type textValue struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance textValue `json:"distance"`
			Duration textValue `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status            string     `json:"status"`
			Distance          textValue  `json:"distance"`
			Duration          textValue  `json:"duration"`
			DurationInTraffic *textValue `json:"duration_in_traffic"`
		} `json:"elements"`
	} `json:"rows"`
}

// Geocode координаты первого результата геокодирования адреса.
func (g *MapsGateway) Geocode(ctx context.Context, address string) (entities.Coordinates, error) {
	params := url.Values{}
	params.Set("address", address)

	var resp geocodeResponse
	if err := g.call(ctx, "geocode", "/maps/api/geocode/json", params, &resp); err != nil {
		return entities.Coordinates{}, err
	}
	if err := statusError("geocode", resp.Status, resp.ErrorMessage); err != nil {
		return entities.Coordinates{}, err
	}
	if len(resp.Results) == 0 {
		return entities.Coordinates{}, &ProviderError{Method: "geocode", Kind: routing.ErrNoResults}
	}

	location := resp.Results[0].Geometry.Location
	return entities.Coordinates{Lat: location.Lat, Lng: location.Lng}, nil
}

// Route маршрут без промежуточных точек.
func (g *MapsGateway) Route(ctx context.Context, origin, destination entities.Coordinates) (*entities.RouteSnapshot, error) {
	return g.Directions(ctx, origin, destination, nil)
}

// Directions маршрут через waypoints. Дистанция и длительность суммируются по всем участкам.
func (g *MapsGateway) Directions(
	ctx context.Context,
	origin, destination entities.Coordinates,
	waypoints []entities.Coordinates,
) (*entities.RouteSnapshot, error) {
	params := url.Values{}
	params.Set("origin", formatPoint(origin))
	params.Set("destination", formatPoint(destination))
	params.Set("mode", "driving")
	if len(waypoints) > 0 {
		params.Set("waypoints", formatPoints(waypoints))
	}

	var resp directionsResponse
	if err := g.call(ctx, "directions", "/maps/api/directions/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError("directions", resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return nil, &ProviderError{Method: "directions", Kind: routing.ErrNoResults}
	}

	route := resp.Routes[0]
	snapshot := &entities.RouteSnapshot{Polyline: route.OverviewPolyline.Points}
	for _, leg := range route.Legs {
		snapshot.DistanceMeters += leg.Distance.Value
		snapshot.DurationSeconds += leg.Duration.Value
	}
	return snapshot, nil
}

// DistanceMatrix матрица origins x destinations с учётом трафика на текущий момент.
func (g *MapsGateway) DistanceMatrix(
	ctx context.Context,
	origins, destinations []entities.Coordinates,
) ([][]MatrixElement, error) {
	if len(origins) == 0 || len(destinations) == 0 {
		return nil, &ProviderError{Method: "distance_matrix", Kind: routing.ErrInvalidRequest, Message: "empty origins or destinations"}
	}

	params := url.Values{}
	params.Set("origins", formatPoints(origins))
	params.Set("destinations", formatPoints(destinations))
	params.Set("mode", "driving")
	params.Set("departure_time", "now")
	params.Set("traffic_model", trafficModelBestGuess)

	var resp distanceMatrixResponse
	if err := g.call(ctx, "distance_matrix", "/maps/api/distancematrix/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError("distance_matrix", resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	matrix := make([][]MatrixElement, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		elements := make([]MatrixElement, 0, len(row.Elements))
		for _, e := range row.Elements {
			element := MatrixElement{Found: e.Status == "OK"}
			if element.Found {
				element.DistanceMeters = e.Distance.Value
				element.DurationSeconds = e.Duration.Value
				element.DurationInTrafficSeconds = e.Duration.Value
				if e.DurationInTraffic != nil {
					element.DurationInTrafficSeconds = e.DurationInTraffic.Value
				}
			}
			elements = append(elements, element)
		}
		matrix = append(matrix, elements)
	}
	return matrix, nil
}

// ETA время в пути от origin до destination с учётом трафика.
func (g *MapsGateway) ETA(ctx context.Context, origin, destination entities.Coordinates) (time.Duration, error) {
	matrix, err := g.DistanceMatrix(ctx, []entities.Coordinates{origin}, []entities.Coordinates{destination})
	if err != nil {
		return 0, err
	}
	if len(matrix) == 0 || len(matrix[0]) == 0 || !matrix[0][0].Found {
		return 0, &ProviderError{Method: "distance_matrix", Kind: routing.ErrNoResults}
	}

	return time.Duration(matrix[0][0].DurationInTrafficSeconds) * time.Second, nil
}

func (g *MapsGateway) call(ctx context.Context, method, path string, params url.Values, out any) error {
	start := time.Now()
	err := g.do(ctx, method, path, params, out)
	GatewayRequestDuration.WithLabelValues(method, kindLabel(err)).Observe(time.Since(start).Seconds())
	return err
}

func (g *MapsGateway) do(ctx context.Context, method, path string, params url.Values, out any) error {
	if g.limiter != nil && !g.limiter.Allow() {
		GatewayRateLimitedTotal.WithLabelValues(method).Inc()
		return &ProviderError{Method: method, Kind: routing.ErrQuotaExceeded, Message: "client-side quota exhausted"}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params.Set("key", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return &ProviderError{Method: method, Kind: routing.ErrInvalidRequest, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// таймауты и сетевые ошибки одинаково временные
		return &ProviderError{Method: method, Kind: routing.ErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ProviderError{
			Method:  method,
			Kind:    kindOfHTTPStatus(resp.StatusCode),
			Status:  strconv.Itoa(resp.StatusCode),
			Message: strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Method: method, Kind: routing.ErrNetwork, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(method, status, message string) error {
	kind := kindOfStatus(status)
	if kind == nil {
		return nil
	}
	return &ProviderError{Method: method, Kind: kind, Status: status, Message: message}
}

func formatPoint(c entities.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lng, 'f', 6, 64)
}

func formatPoints(points []entities.Coordinates) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, formatPoint(p))
	}
	return strings.Join(parts, "|")
}
