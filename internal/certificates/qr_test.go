package certificates

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationURL(t *testing.T) {
	enc := NewVerificationEncoder("", 0)
	assert.Equal(t, "https://tamisemi.go.tz/verify/CT-2000-M-DODOMA-0000-4821",
		enc.VerificationURL("CT-2000-M-DODOMA-0000-4821"))

	custom := NewVerificationEncoder("verify.example.org", 0)
	// copied verbatim, no escaping
	assert.Equal(t, "https://verify.example.org/verify/a b/c", custom.VerificationURL("a b/c"))
}

func TestEncodeProducesPNG(t *testing.T) {
	enc := NewVerificationEncoder("tamisemi.go.tz", 128)

	qr, err := enc.Encode(context.Background(), "CT-2000-M-DODOMA-0000-4821")
	require.NoError(t, err)
	assert.Equal(t, "https://tamisemi.go.tz/verify/CT-2000-M-DODOMA-0000-4821", qr.URL)

	img, err := imaging.Decode(bytes.NewReader(qr.PNG))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestEncodeCancelled(t *testing.T) {
	enc := NewVerificationEncoder("", 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := enc.Encode(ctx, "CT-1")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindEncoding))
	assert.ErrorIs(t, err, ErrQREncoding)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeOversizedPayload(t *testing.T) {
	enc := NewVerificationEncoder("", 0)

	// beyond the capacity of any QR version at medium recovery
	_, err := enc.Encode(context.Background(), string(bytes.Repeat([]byte("9"), 8000)))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindEncoding))

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "EncodeQR", genErr.Op)
}
