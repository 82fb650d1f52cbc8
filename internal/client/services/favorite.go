package services

import (
	"context"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/mutation"
	"github.com/study-upc/studyclient/internal/client/notify"
)

// favoriteSnapshot is what a favorite toggle needs to undo itself.
type favoriteSnapshot struct {
	prev  models.Material
	found bool
}

// FavoriteService toggles favorites optimistically on a material page. The
// store belongs to MaterialService; this type is its favorite feature.
type FavoriteService struct {
	store  *collection.Store[models.Material]
	add    *mutation.Coordinator[int64, struct{}, favoriteSnapshot]
	remove *mutation.Coordinator[int64, struct{}, favoriteSnapshot]
}

func newFavoriteService(api MaterialAPI, store *collection.Store[models.Material], n notify.Notifier) *FavoriteService {
	f := &FavoriteService{store: store}

	f.add = mutation.New(mutation.Options[int64, struct{}, favoriteSnapshot]{
		Apply:    func(id int64) favoriteSnapshot { return f.flip(id, true) },
		Rollback: f.restore,
		Call: func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, api.AddFavorite(ctx, id)
		},
		SuccessMessage: "Added to favorites",
		ErrorMessage:   "Could not add to favorites, change reverted",
	}, n)

	f.remove = mutation.New(mutation.Options[int64, struct{}, favoriteSnapshot]{
		Apply:    func(id int64) favoriteSnapshot { return f.flip(id, false) },
		Rollback: f.restore,
		Call: func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, api.RemoveFavorite(ctx, id)
		},
		SuccessMessage: "Removed from favorites",
		ErrorMessage:   "Could not remove from favorites, change reverted",
	}, n)

	return f
}

func (f *FavoriteService) flip(id int64, favorited bool) favoriteSnapshot {
	prev, ok := f.store.Update(id, func(m models.Material) models.Material {
		if m.IsFavorited == favorited {
			return m
		}
		m.IsFavorited = favorited
		if favorited {
			m.FavoriteCount++
		} else if m.FavoriteCount > 0 {
			m.FavoriteCount--
		}
		return m
	})
	return favoriteSnapshot{prev: prev, found: ok}
}

func (f *FavoriteService) restore(id int64, snap favoriteSnapshot) {
	if !snap.found {
		return
	}
	f.store.Update(id, func(models.Material) models.Material { return snap.prev })
}

func (f *FavoriteService) Add(ctx context.Context, materialID int64) error {
	_, err := f.add.Mutate(ctx, materialID)
	return err
}

func (f *FavoriteService) Remove(ctx context.Context, materialID int64) error {
	_, err := f.remove.Mutate(ctx, materialID)
	return err
}

// Toggle adds or removes depending on the material's current state on the
// page. A material that is not loaded is added.
func (f *FavoriteService) Toggle(ctx context.Context, materialID int64) (bool, error) {
	m, ok := f.store.Get(materialID)
	if ok && m.IsFavorited {
		return false, f.Remove(ctx, materialID)
	}
	return true, f.Add(ctx, materialID)
}

func (f *FavoriteService) Busy() bool {
	return f.add.Busy() || f.remove.Busy()
}
