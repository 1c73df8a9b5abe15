package certificates

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestComposeOverlays(t *testing.T) {
	composer := NewComposer(BytesSource(testEmblem(t)), DefaultComposerOptions())

	overlays, err := composer.Compose(context.Background())
	require.NoError(t, err)

	watermark, err := imaging.Decode(bytes.NewReader(overlays.Watermark))
	require.NoError(t, err)
	assert.Equal(t, 400, watermark.Bounds().Dx())
	assert.Equal(t, 400, watermark.Bounds().Dy())

	_, _, _, a := watermark.At(200, 200).RGBA()
	// 5% of full opacity, 16-bit channel
	assert.InDelta(t, 0.05*0xffff, float64(a), 0.01*0xffff)

	header, err := imaging.Decode(bytes.NewReader(overlays.Header))
	require.NoError(t, err)
	assert.Equal(t, 100, header.Bounds().Dx())
	_, _, _, a = header.At(50, 50).RGBA()
	assert.InDelta(t, 0xffff, float64(a), 0.01*0xffff)
}

func TestComposeLoadFailure(t *testing.T) {
	source := new(MockEmblemSource)
	source.On("Load", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewComposer(source, DefaultComposerOptions()).Compose(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAsset))
	assert.ErrorIs(t, err, ErrAssetUnavailable)
	source.AssertExpectations(t)
}

func TestComposeUndecodableAsset(t *testing.T) {
	_, err := NewComposer(BytesSource("<html>not found</html>"), DefaultComposerOptions()).Compose(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAsset))
}

func TestComposeWithoutSource(t *testing.T) {
	_, err := NewComposer(nil, DefaultComposerOptions()).Compose(context.Background())
	assert.ErrorIs(t, err, ErrAssetUnavailable)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emblem.png")
	require.NoError(t, os.WriteFile(path, testEmblem(t), 0o600))

	data, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.png")}.Load(context.Background())
	assert.Error(t, err)
}

func TestHTTPSourceCachesSuccess(t *testing.T) {
	emblem := testEmblem(t)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(emblem)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL+"/emblem.png", server.Client(), time.Minute)
	defer source.Close()

	for i := 0; i < 3; i++ {
		data, err := source.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, emblem, data)
	}

	assert.Equal(t, int32(1), hits.Load())
	stats := source.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestHTTPSourceDoesNotCacheFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, server.Client(), time.Minute)
	defer source.Close()

	_, err := source.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = source.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), hits.Load())
}
