package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "demo", srv.URL, 2*time.Second, zap.NewNop())
	return c, srv
}

func TestAirQualityParsesStringNumerics(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","data":{"aqi":"72","city":{"name":"Springfield"},"dominentpol":"pm25","iaqi":{"pm25":{"v":"31.5"},"pm10":{"v":44}},"time":{"s":"2026-08-30 10:00:00"}}}`))
	}))
	aq := c.AirQuality(context.Background())
	if aq == nil {
		t.Fatalf("expected reading, got nil")
	}
	if aq.AQI != 72 {
		t.Fatalf("aqi = %d, want 72", aq.AQI)
	}
	if aq.Status != StatusModerate {
		t.Fatalf("status = %q, want moderate", aq.Status)
	}
	if aq.Pollution["pm25"] != 31.5 {
		t.Fatalf("pm25 = %v, want 31.5", aq.Pollution["pm25"])
	}
	if aq.City != "Springfield" {
		t.Fatalf("city = %q", aq.City)
	}
}

func TestAirQualityRejectsHTMLBody(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>rate limited</body></html>"))
	}))
	if aq := c.AirQuality(context.Background()); aq != nil {
		t.Fatalf("expected nil reading for non-JSON body, got %+v", aq)
	}
}

func TestAirQualityErrorStatus(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","data":{}}`))
	}))
	if aq := c.AirQuality(context.Background()); aq != nil {
		t.Fatalf("expected nil reading for error status, got %+v", aq)
	}
}

func TestCO2TakesLatestPoint(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"co2":[{"trend":"419.1","cycle":"418.0"},{"trend":"421.4","cycle":"420.2"}]}`))
	}))
	r := c.CO2(context.Background())
	if r == nil {
		t.Fatalf("expected reading, got nil")
	}
	if r.Trend != 421.4 || r.Cycle != 420.2 || r.Points != 2 {
		t.Fatalf("reading = %+v", r)
	}
}

func TestArcticTakesLatestDateKey(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"arcticData":{"data":{"202512":{"value":13.9},"202601":{"value":10.4},"202511":{"value":14.2}},"description":{"annualMean":11.5}}}`))
	}))
	r := c.Arctic(context.Background())
	if r == nil {
		t.Fatalf("expected reading, got nil")
	}
	if r.Extent != 10.4 {
		t.Fatalf("extent = %v, want 10.4 from latest key", r.Extent)
	}
	if r.Points != 3 {
		t.Fatalf("points = %d, want 3", r.Points)
	}
}

func TestArcticMonthlyMeanFallback(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"arcticData":{"data":{"202512":{"value":13.9},"202601":{"monthlyMean":10.9}},"description":{"annualMean":11.5}}}`))
	}))
	r := c.Arctic(context.Background())
	if r == nil {
		t.Fatalf("expected reading, got nil")
	}
	if r.Extent != 10.9 {
		t.Fatalf("extent = %v, want monthlyMean of latest key", r.Extent)
	}
}

func TestOceanSinglePointPrevious(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[{"land":"1.0"}]}`))
	}))
	r := c.Ocean(context.Background())
	if r == nil {
		t.Fatalf("expected reading, got nil")
	}
	if r.Latest != 1.0 {
		t.Fatalf("latest = %v, want 1.0", r.Latest)
	}
	if r.Previous != 0.8 {
		t.Fatalf("previous = %v, want 0.8", r.Previous)
	}
}

func TestFetchUnreachableReturnsNil(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "demo", "http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop())
	if aq := c.AirQuality(context.Background()); aq != nil {
		t.Fatalf("expected nil on unreachable feed")
	}
	if r := c.CO2(context.Background()); r != nil {
		t.Fatalf("expected nil on unreachable feed")
	}
}

func TestStatusBands(t *testing.T) {
	cases := []struct {
		aqi  int
		want Status
	}{
		{10, StatusGood},
		{50, StatusGood},
		{51, StatusModerate},
		{150, StatusUnhealthySens},
		{151, StatusUnhealthy},
		{250, StatusVeryUnhealthy},
		{301, StatusHazardous},
	}
	for _, tc := range cases {
		if got := StatusForAQI(tc.aqi); got != tc.want {
			t.Fatalf("StatusForAQI(%d) = %q, want %q", tc.aqi, got, tc.want)
		}
	}
	if StatusHazardous.Color() == "" || len(StatusGood.Recommendations()) == 0 {
		t.Fatalf("band metadata missing")
	}
}
