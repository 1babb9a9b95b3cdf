package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentParsesProviderResponse(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current_weather":{"temperature":21.4,"weathercode":61}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	report, err := c.Current(context.Background(), DefaultCoordinate)
	require.NoError(t, err)

	assert.Equal(t, 21.4, report.TemperatureCelsius)
	assert.Equal(t, 61, report.ConditionCode)
	assert.Contains(t, gotQuery, "latitude=41.0082")
	assert.Contains(t, gotQuery, "longitude=28.9784")
	assert.Contains(t, gotQuery, "current_weather=true")
}

func TestCurrentFailsOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.Current(context.Background(), DefaultCoordinate)
	assert.Error(t, err)
}

func TestCurrentFailsOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.Current(context.Background(), DefaultCoordinate)
	assert.Error(t, err)
}

func TestIconThresholds(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{0, "clear"},
		{3, "clear"},
		{4, "cloudy"},
		{45, "cloudy"},
		{46, "fog"},
		{50, "fog"},
		{51, "rain"},
		{70, "rain"},
		{71, "snow"},
		{95, "snow"},
		{96, "storm"},
		{99, "storm"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Icon(c.code), "code %d", c.code)
	}
}

type locatorFunc func(ctx context.Context) (Coordinate, error)

func (f locatorFunc) Locate(ctx context.Context) (Coordinate, error) { return f(ctx) }

func TestResolveNilLocatorUsesFallback(t *testing.T) {
	coord, err := Resolve(context.Background(), nil, DefaultCoordinate, time.Second)
	require.NoError(t, err)
	assert.Equal(t, DefaultCoordinate, coord)
}

func TestResolveReturnsLocatedCoordinate(t *testing.T) {
	loc := locatorFunc(func(ctx context.Context) (Coordinate, error) {
		return Coordinate{Latitude: 46.05, Longitude: 14.51}, nil
	})
	coord, err := Resolve(context.Background(), loc, DefaultCoordinate, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 46.05, coord.Latitude)
}

func TestResolveFallsBackOnError(t *testing.T) {
	loc := locatorFunc(func(ctx context.Context) (Coordinate, error) {
		return Coordinate{}, errors.New("permission denied")
	})
	coord, err := Resolve(context.Background(), loc, DefaultCoordinate, time.Second)
	assert.ErrorIs(t, err, ErrLocation)
	assert.Equal(t, DefaultCoordinate, coord, "fallback coordinate must still be returned")
}

func TestResolveFallsBackOnTimeout(t *testing.T) {
	loc := locatorFunc(func(ctx context.Context) (Coordinate, error) {
		select {
		case <-ctx.Done():
			return Coordinate{}, ctx.Err()
		case <-time.After(5 * time.Second):
			return Coordinate{Latitude: 1, Longitude: 1}, nil
		}
	})
	coord, err := Resolve(context.Background(), loc, DefaultCoordinate, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrLocation)
	assert.Equal(t, DefaultCoordinate, coord)
}
