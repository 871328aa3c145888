package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"
)

// List prints the owner listing, newest first.
func (a *App) List(ctx context.Context) error {
	items, err := a.screen.ListFeedback(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No feedback yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRECEIVED\tEMAIL\tDATA")
	for _, it := range items {
		email := "-"
		if it.UserEmail != nil {
			email = *it.UserEmail
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", it.ID, it.CreatedAt.Format(time.DateTime), email, it.Data)
	}
	return tw.Flush()
}
