package cli

import (
	"context"
	"fmt"

	"github.com/study-upc/studyclient/internal/client/models"
)

func (a *App) Pending(ctx context.Context, args []string) error {
	page, err := parsePage(args, 0)
	if err != nil {
		return err
	}
	store := a.review.Store()
	if err := a.track(a.review.FetchPending(ctx, store.Query().WithPage(page))); err != nil {
		return err
	}

	items := store.Items()
	if len(items) == 0 {
		a.printf("Review queue is empty\n")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tTITLE\tUPLOADER\tFILE\tSIZE\tSUBMITTED")
	for _, m := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Title, m.UploaderName, m.FileName, formatSize(m.FileSize), formatTime(m.CreatedAt))
	}
	_ = tw.Flush()
	printPageFooter(a.out, store)
	return nil
}

func (a *App) Approve(ctx context.Context, args []string) error {
	id, err := parseID(args, "approve <id>")
	if err != nil {
		return err
	}
	return a.track(a.review.Approve(ctx, id))
}

func (a *App) Reject(ctx context.Context, args []string) error {
	id, err := parseID(args, "reject <id>")
	if err != nil {
		return err
	}
	reason, err := getSimpleText(a.reader, "Rejection reason", a.out)
	if err != nil {
		return err
	}
	return a.track(a.review.Reject(ctx, id, reason))
}

// Reviews lists past review decisions. The first argument may be approve or
// reject; a number is taken as the page.
func (a *App) Reviews(ctx context.Context, args []string) error {
	var action models.ReviewAction
	if len(args) > 0 {
		switch act := models.ReviewAction(args[0]); act {
		case models.ReviewApprove, models.ReviewReject:
			action = act
			args = args[1:]
		}
	}
	page, err := parsePage(args, 0)
	if err != nil {
		return err
	}

	store := a.review.History()
	if err := a.track(a.review.FetchHistory(ctx, action, page)); err != nil {
		return err
	}

	items := store.Items()
	if len(items) == 0 {
		a.printf("No review history\n")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tTARGET\tACTION\tREVIEWER\tCOMMENT\tWHEN")
	for _, r := range items {
		reviewer := "-"
		if r.Reviewer != nil {
			reviewer = r.Reviewer.Username
		}
		fmt.Fprintf(tw, "%d\t%s #%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.TargetType, r.TargetID, r.Action, reviewer, r.Comment, formatTime(r.CreatedAt))
	}
	_ = tw.Flush()
	printPageFooter(a.out, store)
	return nil
}
