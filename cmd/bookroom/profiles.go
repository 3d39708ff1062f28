package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/leterax/bookroom/pkg/book"
	"github.com/leterax/bookroom/pkg/config"
)

func printProfiles(w io.Writer, cfg *config.Config) error {
	profiles, err := cfg.ResolveProfiles()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEASING\tFOLD\tINSIDE\tOUTSIDE\tTURNING\tFAN\tWINDOW\tTABS")
	for _, name := range book.ProfileNames(profiles) {
		p := profiles[name]
		active := ""
		if name == cfg.Book.Profile {
			active = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f°\t%s\t%t\n",
			name, active, p.Easing, p.FoldEasing, p.InsideCurve, p.OutsideCurve,
			p.TurningCurve, p.FanDegrees, p.TurnWindow, p.Tabs)
	}
	return tw.Flush()
}
