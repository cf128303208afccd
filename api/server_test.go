package api

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/clusteranim/geo"
	"github.com/matt-g-everett/clusteranim/mapobj"
)

func TestMarkers(t *testing.T) {
	placemarks := mapobj.NewCollection()
	_, err := placemarks.AddPlacemark("a", geo.NewPoint(43.26, -2.93), colorful.Color{R: 1})
	require.NoError(t, err)

	a := NewApi(placemarks, slog.New(slog.NewTextHandler(io.Discard, nil)))
	resp, err := a.App().Test(httptest.NewRequest("GET", "/markers", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "a", fc.Features[0].Properties.MustString("id"))
	assert.Equal(t, geo.NewPoint(43.26, -2.93).Orb(), fc.Features[0].Point())
}

func TestMetrics(t *testing.T) {
	a := NewApi(mapobj.NewCollection(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	resp, err := a.App().Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "clusteranim_stream_frames_published_total")
}
