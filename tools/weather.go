package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultForecastBaseURL is the public Open-Meteo API host.
const DefaultForecastBaseURL = "https://api.open-meteo.com"

// TemperatureUnavailable is returned verbatim when the forecast carries no current temperature.
const TemperatureUnavailable = "Temperature data is not available."

type WeatherInput struct {
	Latitude  float64 `json:"latitude" jsonschema_description:"Latitude of the location in decimal degrees."`
	Longitude float64 `json:"longitude" jsonschema_description:"Longitude of the location in decimal degrees."`
}

var WeatherInputSchema = GenerateSchema[WeatherInput]()

// NewWeatherTool returns the get_weather tool querying baseURL with client.
// A nil client means http.DefaultClient; an empty baseURL means DefaultForecastBaseURL.
func NewWeatherTool(client *http.Client, baseURL string) ToolDefinition {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultForecastBaseURL
	}
	w := weather{client: client, baseURL: strings.TrimRight(baseURL, "/")}
	return ToolDefinition{
		Name:        "get_weather",
		Description: "Get the current temperature at a latitude/longitude, in Celsius and Fahrenheit.",
		InputSchema: WeatherInputSchema,
		Function:    w.current,
	}
}

type weather struct {
	client  *http.Client
	baseURL string
}

func (w weather) current(ctx context.Context, input json.RawMessage) (string, error) {
	var in WeatherInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(in.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(in.Longitude, 'f', -1, 64))
	q.Set("current_weather", "true")
	endpoint := w.baseURL + "/v1/forecast?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("weather: build request: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather: fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("weather: read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("weather: malformed forecast body (status %d)", resp.StatusCode)
	}

	temp := gjson.GetBytes(body, "current_weather.temperature")
	if !temp.Exists() || temp.Type != gjson.Number {
		return TemperatureUnavailable, nil
	}
	c := temp.Float()
	return fmt.Sprintf("The current temperature is %.1f°C (%.1f°F).", c, CelsiusToFahrenheit(c)), nil
}

// CelsiusToFahrenheit converts c degrees Celsius to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}
