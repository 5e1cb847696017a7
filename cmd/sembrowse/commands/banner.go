package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/teranos/sembrowse/browse"
	"github.com/teranos/sembrowse/logger"
	"github.com/teranos/sembrowse/version"
)

// printStartupBanner prints what is being served and where
func printStartupBanner(w io.Writer, verbosity int, addr string, index *browse.Index) {
	versionInfo := version.Get()

	title := pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	label := pterm.NewStyle(pterm.FgGreen)

	fmt.Fprintln(w)
	fmt.Fprintln(w, title.Sprint("  sembrowse ")+pterm.Gray(versionInfo.Version+" ("+versionInfo.Short()+")"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %d attributes from %d registries\n", label.Sprint("Catalog:  "), len(index.Catalog), len(index.Corpora))
	for _, c := range index.Corpora {
		fmt.Fprintf(w, "  %s %s = %s\n", label.Sprint("          "), c.Name, c.Root)
	}
	switch {
	case index.Usage != nil:
		fmt.Fprintf(w, "  %s %d datasets, %d exact, %d template, %d unmatched columns\n",
			label.Sprint("Usage:    "), index.Datasets, index.Usage.Exact, index.Usage.Template, index.Usage.Unmatched)
	case index.UsageError != nil:
		fmt.Fprintf(w, "  %s %s\n", label.Sprint("Usage:    "), pterm.Yellow("unavailable: "+index.UsageError.Error()))
	default:
		fmt.Fprintf(w, "  %s %s\n", label.Sprint("Usage:    "), pterm.Gray("off"))
	}
	fmt.Fprintf(w, "  %s %s\n", label.Sprint("Verbosity:"), logger.LevelName(verbosity))
	fmt.Fprintf(w, "  %s http://%s/\n", label.Sprint("Listening:"), addr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, pterm.Blue("  Press Ctrl+C to stop"))
	fmt.Fprintln(w)
}
