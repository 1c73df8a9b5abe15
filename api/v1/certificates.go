package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibali-portal/portal-backend/internal/certificates"
	"vibali-portal/portal-backend/internal/config"
	"vibali-portal/portal-backend/pkg/storage"
)

// CertificatesAPI holds the certificates API dependencies
type CertificatesAPI struct {
	Handler *certificates.Handler
	Service certificates.Service
	Engine  *certificates.Engine

	closers []func()
}

// SetupCertificatesAPI sets up the certificates API with all dependencies
func SetupCertificatesAPI(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*CertificatesAPI, error) {
	api := &CertificatesAPI{}
	certCfg := cfg.Certificates

	// Emblem source: remote URL wins over the bundled file
	var source certificates.EmblemSource
	switch {
	case certCfg.EmblemURL != "":
		httpSource := certificates.NewHTTPSource(certCfg.EmblemURL,
			&http.Client{Timeout: certCfg.AssetTimeout.Std()}, certCfg.EmblemCacheTTL.Std())
		api.closers = append(api.closers, httpSource.Close)
		source = httpSource
	case certCfg.EmblemPath != "":
		source = certificates.FileSource{Path: certCfg.EmblemPath}
	default:
		logger.Warn("No emblem configured, documents are issued without watermark")
	}

	var composer *certificates.Composer
	if source != nil {
		composer = certificates.NewComposer(source, certificates.DefaultComposerOptions())
	}

	encoder := certificates.NewVerificationEncoder(certCfg.VerificationHost, certCfg.QRSize)
	api.Engine = certificates.NewEngine(composer, encoder, logger.Named("engine"),
		certificates.WithTimeouts(certCfg.AssetTimeout.Std(), certCfg.QRTimeout.Std()))

	// Create archive
	var archive *certificates.Archive
	if cfg.Storage.Enabled {
		s3Client, err := storage.NewS3Client(ctx, storage.S3Options{
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UsePathStyle:    cfg.Storage.UsePathStyle,
		})
		if err != nil {
			api.Close()
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		archive = certificates.NewArchive(s3Client, certificates.ArchiveOptions{
			Bucket:     cfg.Storage.Bucket,
			Prefix:     cfg.Storage.Prefix,
			LinkExpiry: cfg.Storage.LinkExpiry.Std(),
		})
	}

	// Create service
	api.Service = certificates.NewService(api.Engine,
		certificates.NewNumberGenerator(certCfg.ServicePrefix), archive, logger.Named("service"))

	// Create handler
	api.Handler = certificates.NewHandler(api.Service, logger.Named("handler"))

	return api, nil
}

// RegisterCertificatesRoutes registers the certificates routes on the router group
func RegisterCertificatesRoutes(router *gin.RouterGroup, api *CertificatesAPI) {
	api.Handler.RegisterRoutes(router)
}

// Close releases background resources such as the emblem cache
func (a *CertificatesAPI) Close() {
	for _, closer := range a.closers {
		closer()
	}
}
