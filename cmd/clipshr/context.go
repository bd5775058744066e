package main

import (
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ytget/clipshr/internal/config"
	"github.com/ytget/clipshr/internal/download"
	"github.com/ytget/clipshr/internal/encoder"
	"github.com/ytget/clipshr/internal/history"
	"github.com/ytget/clipshr/internal/jobs"
	"github.com/ytget/clipshr/internal/logging"
	"github.com/ytget/clipshr/internal/pipeline"
	"github.com/ytget/clipshr/internal/progress"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     hclog.Logger
}

// application is the wired object graph shared by the commands
type application struct {
	config       *config.Config
	logger       hclog.Logger
	fetcher      *download.Service
	history      *history.Store
	orchestrator *jobs.Orchestrator
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadDotEnv(); err != nil {
			c.configErr = err
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) rootLogger() hclog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.New(config.Default().Logging)
			return
		}
		c.logger = logging.New(cfg.Logging)
	})
	return c.logger
}

// buildApp wires fetcher, encoder, pipeline, history and orchestrator from config
func (c *commandContext) buildApp() (*application, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.rootLogger()

	fetcher := download.NewService(cfg.Paths.MediaDir, download.Options{
		SocketTimeout:    cfg.SocketTimeout(),
		Retries:          cfg.Fetch.Retries,
		MergeFormat:      cfg.Fetch.MergeFormat,
		AudioFormat:      cfg.Fetch.AudioFormat,
		AudioQuality:     cfg.Fetch.AudioQuality,
		ProgressInterval: download.DefaultProgressInterval,
	}, logger.Named("download"))

	ffmpeg := encoder.NewFFmpeg(cfg.Encoder.FFmpegPath, logger.Named("encoder"))
	processor := pipeline.New(ffmpeg, encoder.CompressSettings{
		CRF:          cfg.Encoder.CRF,
		Preset:       cfg.Encoder.Preset,
		AudioBitrate: cfg.Encoder.AudioBitrate,
	}, logger.Named("pipeline"))

	store := history.NewStore(cfg.Paths.HistoryFile, cfg.Paths.MediaDir, logger.Named("history"))
	tracker := progress.NewTracker(logger.Named("progress"))

	orchestrator := jobs.New(fetcher, processor, store, tracker, jobs.Options{
		Retention: cfg.Retention(),
		Logger:    logger.Named("jobs"),
	})

	return &application{
		config:       cfg,
		logger:       logger,
		fetcher:      fetcher,
		history:      store,
		orchestrator: orchestrator,
	}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
