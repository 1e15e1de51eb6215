package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cristianadrielbraun/qrstyle/internal/config"
	"github.com/cristianadrielbraun/qrstyle/internal/encoder"
	"github.com/cristianadrielbraun/qrstyle/internal/grid"
	"github.com/cristianadrielbraun/qrstyle/internal/handlers"
	"github.com/cristianadrielbraun/qrstyle/internal/logo"
	"github.com/cristianadrielbraun/qrstyle/internal/render"
)

func main() {
	configPath := flag.String("config", os.Getenv("QRSTYLE_CONFIG"), "path to a YAML config file")
	flag.Parse()

	log := logrus.New()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if err := setupLogger(log, cfg); err != nil {
		log.WithError(err).Fatal("configure logger")
	}

	enc, err := encoder.New(cfg.Encoder)
	if err != nil {
		log.WithError(err).Fatal("select encoder")
	}
	est, err := grid.NewEstimator(cfg.Estimator)
	if err != nil {
		log.WithError(err).Fatal("select estimator")
	}

	renderer := &render.Renderer{
		Encoder:   enc,
		Estimator: est,
		Logos:     logo.NewLoader(cfg.AllowRemoteLogos, cfg.RemoteLogoTimeout, cfg.MaxLogoBytes),
		Log:       log,
		MaxWidth:  cfg.MaxWidth,
		Verify:    cfg.Verify,
	}

	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(handlers.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(handlers.CORS(cfg.CORSOrigins))

	h := handlers.New(renderer, log, cfg.MaxConcurrentRenders)
	api := r.Group("/api")
	{
		api.GET("/generate", h.QRCodeHandler)
		api.POST("/generate", h.QRCodeHandler)
	}

	r.GET("/", h.Index)
	r.GET("/healthz", h.Health)
	r.GET("/sitemap.xml", h.SitemapXML)

	log.WithFields(logrus.Fields{
		"addr":    cfg.Listen,
		"encoder": cfg.Encoder,
		"verify":  cfg.Verify,
	}).Info("qrstyle listening")
	if err := r.Run(cfg.Listen); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func setupLogger(log *logrus.Logger, cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
