package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/services"
	"github.com/study-upc/studyclient/internal/client/upload"
)

var categories = []models.MaterialCategory{
	models.CategoryCourseware,
	models.CategoryExam,
	models.CategoryExperiment,
	models.CategoryExercise,
	models.CategoryReference,
	models.CategoryOther,
}

func (a *App) Materials(ctx context.Context, args []string) error {
	page, err := parsePage(args, 0)
	if err != nil {
		return err
	}
	store := a.materials.Store()
	if err := a.track(a.materials.List(ctx, store.Query().WithPage(page))); err != nil {
		return err
	}

	items := store.Items()
	if len(items) == 0 {
		a.printf("No materials\n")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tCOURSE\tSIZE\tFAV\tUPLOADED")
	for _, m := range items {
		fav := fmt.Sprintf("%d", m.FavoriteCount)
		if m.IsFavorited {
			fav += " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Title, m.Category, m.CourseName, formatSize(m.FileSize), fav, formatTime(m.CreatedAt))
	}
	_ = tw.Flush()
	printPageFooter(a.out, store)
	return nil
}

func (a *App) Favorite(ctx context.Context, args []string) error {
	id, err := parseID(args, "fav <id>")
	if err != nil {
		return err
	}
	return a.track(a.materials.Favorites().Add(ctx, id))
}

func (a *App) Unfavorite(ctx context.Context, args []string) error {
	id, err := parseID(args, "unfav <id>")
	if err != nil {
		return err
	}
	return a.track(a.materials.Favorites().Remove(ctx, id))
}

// Publish uploads one file and creates a material for it, prompting for the
// metadata.
func (a *App) Publish(ctx context.Context, args []string) error {
	var (
		req services.PublishRequest
		err error
	)
	if len(args) > 0 {
		req.Path = strings.Join(args, " ")
	} else if req.Path, err = getSimpleText(a.reader, "File path", a.out); err != nil {
		return err
	}
	if req.Path == "" {
		return errors.New("usage: publish <path>")
	}

	if req.Title, err = getSimpleText(a.reader, "Title (empty to use the file name)", a.out); err != nil {
		return err
	}
	if req.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	category, err := getSimpleText(a.reader, "Category ("+strings.Join(names, ", ")+")", a.out)
	if err != nil {
		return err
	}
	req.Category = models.MaterialCategory(strings.ToLower(category))

	if req.CourseName, err = getSimpleText(a.reader, "Course name", a.out); err != nil {
		return err
	}
	tags, err := getSimpleText(a.reader, "Tags (comma separated)", a.out)
	if err != nil {
		return err
	}
	req.Tags = splitTags(tags)

	m, err := a.materials.Publish(ctx, req, a.printProgress)
	a.printf("\n")
	if err := a.track(err); err != nil {
		return err
	}
	a.printf("Material #%d %q submitted for review\n", m.ID, m.Title)
	return nil
}

// Upload sends files to storage without creating materials. Every file is
// attempted; a failure does not stop the rest.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: upload <path>...")
	}

	files := make([]upload.File, 0, len(args))
	for _, path := range args {
		f, err := upload.OpenFile(path)
		if err != nil {
			a.printf("skip %s: %v\n", path, err)
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return errors.New("nothing to upload")
	}

	results := a.pipeline.UploadBatch(ctx, files, func(i, pct int) {
		a.printf("\r[%d/%d] %s %3d%%", i+1, len(files), files[i].Name(), pct)
	})
	a.printf("\n")

	failed := 0
	for _, r := range results {
		if r.OK() {
			a.printf("%s -> %s\n", r.Name, r.Key)
			continue
		}
		failed++
		a.track(r.Err)
		a.printf("%s failed: %v\n", r.Name, r.Err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(results))
	}
	return nil
}

func (a *App) UploadConfig(ctx context.Context, _ []string) error {
	cfg := a.uploadConfig.Current()
	a.printf("max size: %s\n", formatSize(cfg.MaxSize))
	a.printf("allowed:  %s\n", strings.Join(cfg.AllowedTypes, ", "))
	return nil
}

func (a *App) printProgress(pct int) {
	a.printf("\ruploading %3d%%", pct)
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
