package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if a.session != nil {
		if name := a.session.Username(); name != "" {
			parts = append(parts, name)
		}
	}
	if a.Mode != "" {
		parts = append(parts, string(a.Mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// Root restores a saved session, loads the upload policy and runs the REPL
// until the user exits.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to the study materials CLI (type 'help' for commands)\n")

	restored, err := a.session.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to restore session", "error", err)
	}
	a.uploadConfig.Load(ctx)

	if restored {
		a.printf("Logged in as %s\n", a.session.Username())
		if err := a.Unread(ctx, nil); err != nil {
			a.logger.Debug(ctx, "unread count unavailable", "error", err)
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "login                         sign in", run: a.Login},
		{name: "logout", usage: "logout                        sign out", auth: true, run: a.Logout},

		{name: "materials", aliases: []string{"m"}, usage: "materials [page]              list materials", auth: true, run: a.Materials},
		{name: "fav", usage: "fav <id>                      add a material to favorites", auth: true, run: a.Favorite},
		{name: "unfav", usage: "unfav <id>                    remove a material from favorites", auth: true, run: a.Unfavorite},
		{name: "publish", usage: "publish <path>                upload a file and submit it as a material", auth: true, run: a.Publish},
		{name: "upload", usage: "upload <path>...              upload files to storage and print their keys", auth: true, run: a.Upload},
		{name: "uploadcfg", usage: "uploadcfg                     show the upload policy", auth: true, run: a.UploadConfig},

		{name: "notifications", aliases: []string{"n"}, usage: "notifications [all|unread|read] [page]", auth: true, run: a.Notifications},
		{name: "unread", usage: "unread                        show the unread count", auth: true, run: a.Unread},
		{name: "read", usage: "read <id>                     mark a notification as read", auth: true, run: a.MarkRead},
		{name: "readall", usage: "readall                       mark every notification as read", auth: true, run: a.MarkAllRead},
		{name: "rmnote", usage: "rmnote <id>                   delete a notification", auth: true, run: a.DeleteNotification},

		{name: "pending", usage: "pending [page]                materials waiting for review (admin)", auth: true, run: a.Pending},
		{name: "approve", usage: "approve <id>                  approve a material (admin)", auth: true, run: a.Approve},
		{name: "reject", usage: "reject <id>                   reject a material (admin)", auth: true, run: a.Reject},
		{name: "reviews", usage: "reviews [approve|reject] [page] past review decisions (admin)", auth: true, run: a.Reviews},

		{name: "apply", usage: "apply                         apply for the study committee", auth: true, run: a.Apply},
		{name: "applications", aliases: []string{"apps"}, usage: "applications                  your committee applications", auth: true, run: a.Applications},
		{name: "cancel", usage: "cancel <id>                   cancel a pending application", auth: true, run: a.CancelApplication},
		{name: "allapps", usage: "allapps [status] [page]       every application (admin)", auth: true, run: a.AllApplications},
		{name: "reviewapp", usage: "reviewapp <id> approve|reject review an application (admin)", auth: true, run: a.ReviewApplication},

		{name: "search", aliases: []string{"s"}, usage: "search <keyword>              search materials", auth: true, run: a.Search},
		{name: "history", usage: "history [clear|rm <keyword>]  recent searches", auth: true, run: a.History},
	}
}
