package render

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ripplemine/ripplemine/pkg/cochange"
)

// Summary writes a one-line human-readable recap of a built Changes
// matrix: file count, bin count, and how long ago the newest bin was.
func Summary(w io.Writer, changes *cochange.Changes, elapsed time.Duration) {
	files := int64(changes.F.Rows())
	bins := int64(changes.F.Cols())

	newest := newestBin(changes.F.ColNames)

	fmt.Fprintf(w, "%s files, %s commit bins mined in %s",
		humanize.Comma(files), humanize.Comma(bins), elapsed.Round(time.Millisecond))

	if !newest.IsZero() {
		fmt.Fprintf(w, " (newest bin %s)", humanize.Time(newest))
	}

	fmt.Fprintln(w)
}

func newestBin(bins []cochange.Bin) time.Time {
	var newest time.Time

	for _, b := range bins {
		t := time.Time(b)
		if t.After(newest) {
			newest = t
		}
	}

	return newest
}
