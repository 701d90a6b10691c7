// Package feed is the best-effort client for the upstream environmental
// data APIs. Every fetch is a single attempt with a short timeout; any
// failure (HTTP error, non-JSON body, missing field) degrades to defaults
// and is logged, never surfaced as an error to callers.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Fallbacks used when a reading is absent or unparseable. Each field is
// defaulted individually.
const (
	defaultAQI       = 3
	defaultPM25      = 25.0
	defaultPM10      = 50.0
	defaultO3        = 80.0
	defaultCO2       = 420.0
	defaultIceExtent = 12.0
	defaultOceanTemp = 0.8
)

type Client struct {
	httpClient *http.Client
	waqiBase   string
	waqiToken  string
	gwBase     string
	log        *zap.Logger
}

func NewClient(waqiBase, waqiToken, gwBase string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		waqiBase:   strings.TrimRight(waqiBase, "/"),
		waqiToken:  waqiToken,
		gwBase:     strings.TrimRight(gwBase, "/"),
		log:        log,
	}
}

// flexFloat tolerates numeric fields that upstream sometimes serializes as
// strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil // tolerated; caller keeps the default
	}
	*f = flexFloat(v)
	return nil
}

// fetchJSON performs one GET and decodes the body into dst. It rejects
// bodies that do not look like JSON before decoding, matching the upstream's
// habit of returning HTML error pages.
func (c *Client) fetchJSON(ctx context.Context, url string, dst any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Warn("feed request build failed", zap.String("url", url), zap.Error(err))
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("feed fetch failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("feed responded with error status", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.log.Warn("feed body read failed", zap.String("url", url), zap.Error(err))
		return false
	}
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		c.log.Warn("feed returned non-JSON body", zap.String("url", url))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		c.log.Warn("feed body decode failed", zap.String("url", url), zap.Error(err))
		return false
	}
	return true
}

// AirQuality holds one WAQI-style reading, banded into a status.
type AirQuality struct {
	AQI         int                `json:"aqi"`
	City        string             `json:"city"`
	DominantPol string             `json:"dominentpol"`
	Pollution   map[string]float64 `json:"pollution"`
	Timestamp   string             `json:"timestamp"`
	Status      Status             `json:"status"`
}

type waqiResponse struct {
	Status string `json:"status"`
	Data   struct {
		AQI  flexFloat `json:"aqi"`
		City struct {
			Name string `json:"name"`
		} `json:"city"`
		DominantPol string `json:"dominentpol"`
		IAQI        map[string]struct {
			V flexFloat `json:"v"`
		} `json:"iaqi"`
		Time struct {
			S string `json:"s"`
		} `json:"time"`
	} `json:"data"`
}

// AirQuality fetches the current reading for the caller's location. Returns
// nil when the feed is unavailable; callers fall back to static defaults.
func (c *Client) AirQuality(ctx context.Context) *AirQuality {
	url := fmt.Sprintf("%s/feed/here/?token=%s", c.waqiBase, c.waqiToken)
	var resp waqiResponse
	if !c.fetchJSON(ctx, url, &resp) {
		return nil
	}
	if resp.Status != "ok" {
		c.log.Warn("air quality feed status not ok", zap.String("status", resp.Status))
		return nil
	}
	aqi := int(resp.Data.AQI)
	out := &AirQuality{
		AQI:         aqi,
		City:        resp.Data.City.Name,
		DominantPol: resp.Data.DominantPol,
		Pollution:   make(map[string]float64),
		Timestamp:   resp.Data.Time.S,
		Status:      StatusForAQI(aqi),
	}
	if out.City == "" {
		out.City = "Unknown Location"
	}
	if out.DominantPol == "" {
		out.DominantPol = "pm25"
	}
	for pol, v := range resp.Data.IAQI {
		out.Pollution[pol] = float64(v.V)
	}
	return out
}

// CO2Reading is the latest point of the atmospheric CO2 series.
type CO2Reading struct {
	Trend  float64
	Cycle  float64
	Points int
}

type co2Response struct {
	CO2 []struct {
		Trend flexFloat `json:"trend"`
		Cycle flexFloat `json:"cycle"`
	} `json:"co2"`
}

func (c *Client) CO2(ctx context.Context) *CO2Reading {
	var resp co2Response
	if !c.fetchJSON(ctx, c.gwBase+"/co2-api", &resp) {
		return nil
	}
	if len(resp.CO2) == 0 {
		c.log.Warn("co2 feed returned empty series")
		return nil
	}
	latest := resp.CO2[len(resp.CO2)-1]
	out := &CO2Reading{Trend: defaultCO2, Cycle: defaultCO2, Points: len(resp.CO2)}
	if latest.Trend != 0 {
		out.Trend = float64(latest.Trend)
	}
	if latest.Cycle != 0 {
		out.Cycle = float64(latest.Cycle)
	}
	return out
}

// ArcticReading is the latest sea-ice extent measurement.
type ArcticReading struct {
	Extent float64
	Points int
}

type arcticResponse struct {
	ArcticData struct {
		Data map[string]struct {
			Value       flexFloat `json:"value"`
			MonthlyMean flexFloat `json:"monthlyMean"`
		} `json:"data"`
		Description struct {
			AnnualMean flexFloat `json:"annualMean"`
		} `json:"description"`
	} `json:"arcticData"`
}

func (c *Client) Arctic(ctx context.Context) *ArcticReading {
	var resp arcticResponse
	if !c.fetchJSON(ctx, c.gwBase+"/arctic-api", &resp) {
		return nil
	}
	out := &ArcticReading{Extent: defaultIceExtent, Points: len(resp.ArcticData.Data)}
	// Keys are YYYYMM date strings; the latest one holds the current reading.
	keys := make([]string, 0, len(resp.ArcticData.Data))
	for k := range resp.ArcticData.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		point := resp.ArcticData.Data[keys[len(keys)-1]]
		if point.Value != 0 {
			out.Extent = float64(point.Value)
		} else if point.MonthlyMean != 0 {
			out.Extent = float64(point.MonthlyMean)
		}
	}
	if out.Extent == defaultIceExtent && resp.ArcticData.Description.AnnualMean != 0 {
		out.Extent = float64(resp.ArcticData.Description.AnnualMean)
	}
	if out.Points == 0 {
		out.Points = 1
	}
	return out
}

// OceanReading is the tail of the ocean temperature anomaly series.
type OceanReading struct {
	Latest   float64
	Previous float64
	Points   int
}

type oceanResponse struct {
	Result []struct {
		Land flexFloat `json:"land"`
	} `json:"result"`
}

func (c *Client) Ocean(ctx context.Context) *OceanReading {
	var resp oceanResponse
	if !c.fetchJSON(ctx, c.gwBase+"/ocean-warming-api", &resp) {
		return nil
	}
	if len(resp.Result) == 0 {
		c.log.Warn("ocean feed returned empty series")
		return nil
	}
	out := &OceanReading{Latest: defaultOceanTemp, Points: len(resp.Result)}
	if v := float64(resp.Result[len(resp.Result)-1].Land); v != 0 {
		out.Latest = v
	}
	if len(resp.Result) > 1 {
		out.Previous = float64(resp.Result[len(resp.Result)-2].Land)
	} else {
		out.Previous = math.Abs(out.Latest) * 0.8
	}
	return out
}

// GlobalStats are fixed reference values shown on the dashboard.
type GlobalStats struct {
	GlobalAirQuality float64 `json:"globalAirQuality"`
	CitiesMonitored  int     `json:"citiesMonitored"`
	CO2Levels        float64 `json:"co2Levels"`
	ForestCoverage   float64 `json:"forestCoverage"`
}

func (c *Client) GlobalStats() GlobalStats {
	return GlobalStats{
		GlobalAirQuality: 85,
		CitiesMonitored:  8469,
		CO2Levels:        418.5,
		ForestCoverage:   31.0,
	}
}
