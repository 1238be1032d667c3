package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/album-proxy/pkg/album"
)

func newAlbumsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "albums",
		Short: "List albums grouped by year",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, client, err := ctx.newService()
			if err != nil {
				return err
			}
			defer client.Close()

			albums, err := service.Albums(cmd.Context())
			if err != nil {
				return fmt.Errorf("list albums: %w", err)
			}
			byYear, years := album.GroupByYear(albums)

			out := cmd.OutOrStdout()
			if len(albums) == 0 {
				fmt.Fprintln(out, "No albums")
				return nil
			}

			rows := make([][]string, 0, len(albums))
			listed := 0
			for _, year := range years {
				for i := range byYear[year] {
					a := &byYear[year][i]
					rows = append(rows, []string{
						year,
						a.AlbumName,
						album.DateRange(a),
						strconv.Itoa(len(album.Images(a.Assets))),
						a.ID,
					})
					listed++
				}
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Year", "Album", "Dates", "Images", "ID"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			if skipped := len(albums) - listed; skipped > 0 {
				fmt.Fprintf(out, "%d album(s) without a start date not shown\n", skipped)
			}
			return nil
		},
	}
}
