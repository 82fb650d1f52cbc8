package cli

import (
	"context"
	"fmt"

	"github.com/study-upc/studyclient/internal/client/models"
)

// Notifications lists notifications, optionally filtered by status.
func (a *App) Notifications(ctx context.Context, args []string) error {
	var status models.NotificationStatus
	if len(args) > 0 {
		switch args[0] {
		case "all":
			args = args[1:]
		case string(models.NotificationUnread), string(models.NotificationRead):
			status = models.NotificationStatus(args[0])
			args = args[1:]
		}
	}
	page, err := parsePage(args, 0)
	if err != nil {
		return err
	}

	store := a.notifications.Store()
	q := store.Query().WithFilter("status", string(status)).WithPage(page)
	if err := a.track(a.notifications.Fetch(ctx, q)); err != nil {
		return err
	}

	items := store.Items()
	if len(items) == 0 {
		a.printf("No notifications\n")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\t\tTYPE\tTITLE\tWHEN")
	for _, n := range items {
		mark := ""
		if n.Unread() {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", n.ID, mark, n.Type, n.Title, formatTime(n.CreatedAt))
	}
	_ = tw.Flush()
	printPageFooter(a.out, store)
	return nil
}

func (a *App) Unread(ctx context.Context, _ []string) error {
	n, err := a.notifications.RefreshUnreadCount(ctx)
	if err := a.track(err); err != nil {
		return err
	}
	a.printf("%d unread notification(s)\n", n)
	return nil
}

func (a *App) MarkRead(ctx context.Context, args []string) error {
	id, err := parseID(args, "read <id>")
	if err != nil {
		return err
	}
	return a.track(a.notifications.MarkRead(ctx, id))
}

func (a *App) MarkAllRead(ctx context.Context, _ []string) error {
	return a.track(a.notifications.MarkAllRead(ctx))
}

func (a *App) DeleteNotification(ctx context.Context, args []string) error {
	id, err := parseID(args, "rmnote <id>")
	if err != nil {
		return err
	}
	return a.track(a.notifications.Delete(ctx, id))
}
