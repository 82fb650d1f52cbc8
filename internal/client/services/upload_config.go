package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/repositories/metadata"
	"github.com/study-upc/studyclient/internal/client/upload"
	"github.com/study-upc/studyclient/internal/logging"
)

const defaultMaxSizeMB = 50

// DefaultUploadConfig is used when neither the backend nor the local cache
// can provide one.
func DefaultUploadConfig() models.UploadConfig {
	types := []string{"pdf", "docx", "doc", "pptx", "ppt", "zip", "rar"}
	return models.UploadConfig{
		MaxSize:      defaultMaxSizeMB * 1024 * 1024,
		MaxSizeMB:    defaultMaxSizeMB,
		AllowedTypes: types,
		Accept:       acceptString(types),
	}
}

func acceptString(types []string) string {
	exts := make([]string, 0, len(types))
	for _, t := range types {
		exts = append(exts, "."+strings.TrimPrefix(t, "."))
	}
	return strings.Join(exts, ",")
}

// UploadConfigService fetches the server upload policy once per run and keeps
// the last good copy in the local cache for offline starts.
type UploadConfigService struct {
	api      UploadConfigAPI
	repo     metadata.Repository
	pipeline *upload.Pipeline
	logger   logging.Logger

	mu     sync.Mutex
	cfg    models.UploadConfig
	loaded bool
}

func NewUploadConfigService(api UploadConfigAPI, db *sql.DB, pipeline *upload.Pipeline, logger logging.Logger) *UploadConfigService {
	if logger == nil {
		logger = logging.Nop{}
	}
	s := &UploadConfigService{api: api, pipeline: pipeline, logger: logger}
	if db != nil {
		s.repo = metadata.NewSQLiteRepository(db)
	}
	return s
}

// Load returns the config, fetching it on the first call only.
func (s *UploadConfigService) Load(ctx context.Context) models.UploadConfig {
	s.mu.Lock()
	if s.loaded {
		cfg := s.cfg
		s.mu.Unlock()
		return cfg
	}
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh fetches the config from the backend. When that fails it falls back
// to the cached copy and then to DefaultUploadConfig. The result is applied
// to the upload pipeline.
func (s *UploadConfigService) Refresh(ctx context.Context) models.UploadConfig {
	cfg, err := s.api.UploadConfig(ctx)
	switch {
	case err == nil:
		cfg = normalizeUploadConfig(cfg)
		if s.repo != nil {
			if err := metadata.SetJSON(ctx, s.repo, metadata.KeyUploadConfig, cfg); err != nil {
				s.logger.Warn(ctx, "failed to cache upload config", "error", err)
			}
		}
	default:
		s.logger.Warn(ctx, "failed to fetch upload config, using fallback", "error", err)
		cfg = s.fallback(ctx)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.loaded = true
	s.mu.Unlock()

	if s.pipeline != nil {
		s.pipeline.SetPolicy(PolicyFor(cfg))
	}
	return cfg
}

func (s *UploadConfigService) Current() models.UploadConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return DefaultUploadConfig()
	}
	return s.cfg
}

func (s *UploadConfigService) fallback(ctx context.Context) models.UploadConfig {
	if s.repo != nil {
		var cached models.UploadConfig
		ok, err := metadata.GetJSON(ctx, s.repo, metadata.KeyUploadConfig, &cached)
		if err != nil {
			s.logger.Warn(ctx, "failed to read cached upload config", "error", err)
		}
		if ok {
			return normalizeUploadConfig(cached)
		}
	}
	return DefaultUploadConfig()
}

// PolicyFor turns a server config into the pipeline's local pre-check.
func PolicyFor(cfg models.UploadConfig) upload.Policy {
	return upload.Policy{MaxSize: cfg.MaxSize, AllowedTypes: cfg.AllowedTypes}
}

// normalizeUploadConfig fills fields the backend may leave out.
func normalizeUploadConfig(cfg models.UploadConfig) models.UploadConfig {
	def := DefaultUploadConfig()
	if cfg.MaxSize <= 0 && cfg.MaxSizeMB > 0 {
		cfg.MaxSize = cfg.MaxSizeMB * 1024 * 1024
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = cfg.MaxSize / (1024 * 1024)
	}
	if len(cfg.AllowedTypes) == 0 {
		cfg.AllowedTypes = def.AllowedTypes
	}
	if cfg.Accept == "" {
		cfg.Accept = acceptString(cfg.AllowedTypes)
	}
	return cfg
}
