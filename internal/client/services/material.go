package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/notify"
	"github.com/study-upc/studyclient/internal/client/upload"
)

// PublishRequest describes a material to upload and commit.
type PublishRequest struct {
	Path        string
	Title       string
	Description string
	Category    models.MaterialCategory
	CourseName  string
	Tags        []string
}

// MaterialService owns the material listing page and publishes new files.
type MaterialService struct {
	api      MaterialAPI
	pipeline *upload.Pipeline
	notifier notify.Notifier

	store     *collection.Store[models.Material]
	loader    *collection.Loader[models.Material]
	favorites *FavoriteService
}

func NewMaterialService(api MaterialAPI, pipeline *upload.Pipeline, n notify.Notifier, pageSize int) *MaterialService {
	if n == nil {
		n = notify.Discard{}
	}
	store := collection.NewStore[models.Material](pageSize)
	return &MaterialService{
		api:       api,
		pipeline:  pipeline,
		notifier:  n,
		store:     store,
		loader:    collection.NewLoader(store, api.ListMaterials),
		favorites: newFavoriteService(api, store, n),
	}
}

func (s *MaterialService) Store() *collection.Store[models.Material] { return s.store }
func (s *MaterialService) Favorites() *FavoriteService                { return s.favorites }
func (s *MaterialService) Loading() bool                              { return s.loader.Loading() }

// List fetches a page of materials into the store.
func (s *MaterialService) List(ctx context.Context, q collection.Query) error {
	return s.loader.Load(ctx, q)
}

func (s *MaterialService) Reload(ctx context.Context) error {
	return s.loader.Reload(ctx)
}

// Publish uploads the file at req.Path and then creates the material that
// references it. Nothing is committed when the upload fails.
func (s *MaterialService) Publish(ctx context.Context, req PublishRequest, onProgress upload.ProgressFunc) (models.Material, error) {
	f, err := upload.OpenFile(req.Path)
	if err != nil {
		return models.Material{}, fmt.Errorf("open %s: %w", req.Path, err)
	}
	mime, err := upload.ResolveMIME(f.Name(), f.ContentType())
	if err != nil {
		s.notifier.Error(err.Error())
		return models.Material{}, err
	}

	key, err := s.pipeline.Upload(ctx, f, onProgress)
	if err != nil {
		return models.Material{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(f.Name(), upload.Extension(f.Name()))
	}
	category := req.Category
	if category == "" {
		category = models.CategoryOther
	}

	m, err := s.api.CreateMaterial(ctx, models.CreateMaterialRequest{
		Title:       title,
		Description: req.Description,
		Category:    category,
		CourseName:  req.CourseName,
		Tags:        req.Tags,
		FileName:    f.Name(),
		FileKey:     key,
		FileSize:    f.Size(),
		MimeType:    mime,
	})
	if err != nil {
		s.notifier.Error("File uploaded but the material could not be created")
		return models.Material{}, fmt.Errorf("create material: %w", err)
	}

	s.notifier.Success("Material submitted for review")
	return m, nil
}

func (s *MaterialService) Reset() {
	s.loader.Invalidate()
	s.store.Reset()
}
