package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	var (
		catalogFile string
		preference  string
	)

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List the room catalog or show which room a preference resolves to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRooms(cmd.OutOrStdout(), catalogFile, preference)
		},
	}

	cmd.Flags().StringVar(&catalogFile, "catalog", "", "room catalog YAML (defaults to the embedded catalog)")
	cmd.Flags().StringVar(&preference, "match", "", "resolve a free-form room preference")

	return cmd
}

func runRooms(out io.Writer, catalogFile, preference string) error {
	rooms, err := loadCatalog(catalogFile)
	if err != nil {
		return err
	}

	if preference != "" {
		room, key := rooms.Match(preference)

		_, err := fmt.Fprintf(out, "%s -> %s %s (%s)\n", key, room.Number, room.Type, strings.Join(room.Features, ", "))

		return err //nolint:wrapcheck
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNUMBER\tTYPE\tFLOOR\tFEATURES")

	for _, entry := range rooms.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			entry.Key, entry.Room.Number, entry.Room.Type, entry.Room.Floor, strings.Join(entry.Room.Features, ", "))
	}

	return w.Flush() //nolint:wrapcheck
}
