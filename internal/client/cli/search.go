package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: search <keyword>")
	}
	if err := a.track(a.search.Search(ctx, strings.Join(args, " "))); err != nil {
		return err
	}

	store := a.search.Store()
	items := store.Items()
	if len(items) == 0 {
		a.printf("Nothing found for %q\n", a.search.Keyword())
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tCOURSE\tDOWNLOADS\tUPLOADER")
	for _, r := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", r.ID, r.Title, r.Category, r.CourseName, r.DownloadCount, r.UploaderName)
	}
	_ = tw.Flush()
	printPageFooter(a.out, store)
	return nil
}

// History shows recent keywords, or edits them with "clear" and "rm".
func (a *App) History(ctx context.Context, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "clear":
			return a.search.ClearHistory(ctx)
		case "rm":
			if len(args) < 2 {
				return errors.New("usage: history rm <keyword>")
			}
			return a.search.RemoveHistory(ctx, strings.Join(args[1:], " "))
		default:
			return fmt.Errorf("unknown history action %q", args[0])
		}
	}

	entries, err := a.search.History(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("No recent searches\n")
		return nil
	}
	for _, e := range entries {
		a.printf("%-30s %s\n", e.Keyword, formatTime(e.SearchedAt))
	}
	return nil
}
