package cli

import (
	"context"
	"fmt"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
)

func (a *App) Apply(ctx context.Context, _ []string) error {
	reason, err := GetMultiline(a.reader, "Why do you want to join the study committee?", a.out)
	if err != nil {
		return err
	}
	app, err := a.committee.Apply(ctx, reason)
	if err := a.track(err); err != nil {
		return err
	}
	a.printf("Application #%d submitted\n", app.ID)
	return nil
}

func (a *App) Applications(ctx context.Context, args []string) error {
	page, err := parsePage(args, 0)
	if err != nil {
		return err
	}
	store := a.committee.Mine()
	if err := a.track(a.committee.FetchMine(ctx, store.Query().WithPage(page))); err != nil {
		return err
	}
	a.printApplications(store)
	return nil
}

func (a *App) CancelApplication(ctx context.Context, args []string) error {
	id, err := parseID(args, "cancel <id>")
	if err != nil {
		return err
	}
	return a.track(a.committee.Cancel(ctx, id))
}

// AllApplications lists everyone's applications. The first argument may be
// a status; a number is taken as the page.
func (a *App) AllApplications(ctx context.Context, args []string) error {
	var status models.ApplicationStatus
	if len(args) > 0 {
		switch s := models.ApplicationStatus(args[0]); s {
		case models.ApplicationPending, models.ApplicationApproved, models.ApplicationRejected, models.ApplicationCancelled:
			status = s
			args = args[1:]
		}
	}
	page, err := parsePage(args, 0)
	if err != nil {
		return err
	}

	store := a.committee.All()
	if err := a.track(a.committee.FetchAll(ctx, status, store.Query().WithPage(page))); err != nil {
		return err
	}
	if n, err := a.committee.RefreshPendingCount(ctx); err == nil {
		a.printf("%d pending\n", n)
	}
	a.printApplications(store)
	return nil
}

func (a *App) ReviewApplication(ctx context.Context, args []string) error {
	const usage = "reviewapp <id> approve|reject"
	id, err := parseID(args, usage)
	if err != nil {
		return err
	}
	if len(args) < 2 || (args[1] != "approve" && args[1] != "reject") {
		return fmt.Errorf("usage: %s", usage)
	}

	comment, err := getSimpleText(a.reader, "Comment (optional)", a.out)
	if err != nil {
		return err
	}
	return a.track(a.committee.Review(ctx, id, args[1] == "approve", comment))
}

func (a *App) printApplications(store *collection.Store[models.CommitteeApplication]) {
	items := store.Items()
	if len(items) == 0 {
		a.printf("No applications\n")
		return
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tUSER\tSTATUS\tREASON\tSUBMITTED")
	for _, app := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", app.ID, app.Username, app.Status, app.Reason, formatTime(app.CreatedAt))
	}
	_ = tw.Flush()
	printPageFooter(a.out, store)
}
