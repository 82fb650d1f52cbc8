package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/study-upc/studyclient/internal/client/collection"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printPageFooter prints "page x/y, n total" under a listing.
func printPageFooter[T collection.Entity](w io.Writer, s *collection.Store[T]) {
	fmt.Fprintf(w, "page %d/%d, %d total", s.Page(), s.TotalPages(), s.Total())
	if s.HasMore() {
		fmt.Fprint(w, " (more available)")
	}
	fmt.Fprintln(w)
}

func formatSize(n int64) string {
	if n <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// parsePage reads an optional page number; it defaults to 1.
func parsePage(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page %q", args[i])
	}
	return n, nil
}
