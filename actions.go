package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bmpview/internal/config"
)

// printKeybindings writes one line per action, in dispatch order, with its
// description and bound keys.
func printKeybindings(w io.Writer, keybindings map[string][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tKEYS\tDESCRIPTION")
	for _, action := range config.Actions() {
		keys := keybindings[action.Name]
		if len(keys) == 0 {
			keys = []string{"-"}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", action.Name, strings.Join(keys, ", "), action.Description)
	}
	return tw.Flush()
}
