package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/cristianadrielbraun/qrstyle/internal/logo"
	"github.com/cristianadrielbraun/qrstyle/internal/render"
	"github.com/cristianadrielbraun/qrstyle/web/pages"
)

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	renderer *render.Renderer
	log      logrus.FieldLogger
	// slots bounds how many renders run at once.
	slots        *semaphore.Weighted
	maxLogoBytes int64
}

// New returns a Handler that renders with r and runs at most maxConcurrent
// renders at a time.
func New(r *render.Renderer, log logrus.FieldLogger, maxConcurrent int64) *Handler {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	maxLogo := int64(logo.DefaultMaxBytes)
	if r.Logos != nil && r.Logos.MaxBytes > 0 {
		maxLogo = r.Logos.MaxBytes
	}
	return &Handler{
		renderer:     r,
		log:          log,
		slots:        semaphore.NewWeighted(maxConcurrent),
		maxLogoBytes: maxLogo,
	}
}

// Index serves the API overview page.
func (h *Handler) Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	data := pages.IndexData{
		BaseURL:  baseURL(c),
		MaxWidth: h.renderer.MaxWidth,
	}
	if err := pages.Index(data).Render(c.Request.Context(), c.Writer); err != nil {
		h.log.WithError(err).Error("render index page")
	}
}

// Health reports that the process is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SitemapXML serves a minimal sitemap listing the index page.
func (h *Handler) SitemapXML(c *gin.Context) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	xml := "" +
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n" +
		"  <url>\n" +
		"    <loc>" + baseURL(c) + "/" + "</loc>\n" +
		"    <changefreq>monthly</changefreq>\n" +
		"    <priority>1.0</priority>\n" +
		"  </url>\n" +
		"</urlset>\n"
	c.String(http.StatusOK, xml)
}

// baseURL rebuilds the public origin of the request, trusting
// X-Forwarded-Proto when a proxy sets it.
func baseURL(c *gin.Context) string {
	scheme := "https"
	if xf := c.Request.Header.Get("X-Forwarded-Proto"); xf != "" {
		scheme = xf
	} else if c.Request.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + c.Request.Host
}
