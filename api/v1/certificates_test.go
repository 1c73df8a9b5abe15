package v1

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vibali-portal/portal-backend/internal/config"
)

func TestSetupCertificatesAPIWithoutEmblem(t *testing.T) {
	cfg := config.Default()
	cfg.Certificates.EmblemPath = filepath.Join(t.TempDir(), "missing.png")

	api, err := SetupCertificatesAPI(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer api.Close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterCertificatesRoutes(router.Group("/api/v1"), api)

	body := `{"title":"Certificate of Residence","language":"en","certificate_number":"CT-2000-M-DODOMA-0000-4821"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates/documents", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "CT-2000-M-DODOMA-0000-4821.pdf")
	assert.Equal(t, "false", w.Header().Get("X-Emblem"))
}

func TestSetupCertificatesAPIRemoteEmblem(t *testing.T) {
	cfg := config.Default()
	cfg.Certificates.EmblemURL = "http://127.0.0.1:0/emblem.png"

	api, err := SetupCertificatesAPI(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	api.Close()
	assert.NotNil(t, api.Engine)
}
