package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/album-proxy/pkg/media"
	"github.com/Sternrassler/album-proxy/pkg/prefetch"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var originals bool
	var preview bool
	var concurrency int

	cmd := &cobra.Command{
		Use:   "check <album-id>",
		Short: "Fetch every image of an album through the upstream client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			service, client, err := ctx.newService()
			if err != nil {
				return err
			}
			defer client.Close()

			a, err := service.Album(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load album: %w", err)
			}

			kinds := []media.Kind{media.KindThumbnail}
			if originals {
				kinds = append(kinds, media.KindOriginal)
			}
			jobs := prefetch.JobsForAlbum(a, kinds...)
			if preview {
				for i := range jobs {
					if jobs[i].Kind == media.KindThumbnail {
						jobs[i].Size = media.SizePreview
					}
				}
			}

			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintf(out, "Album %q has no images\n", a.AlbumName)
				return nil
			}

			checkCfg := prefetch.Config{
				MaxConcurrency: cfg.Check.Concurrency,
				Timeout:        cfg.CheckTimeout(),
			}
			if concurrency > 0 {
				checkCfg.MaxConcurrency = concurrency
			}
			results, runErr := prefetch.NewChecker(client, checkCfg).Run(cmd.Context(), jobs)

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.OK() {
					status = "failed"
				}
				kind := string(r.Kind)
				if r.Size != "" {
					kind += " (" + string(r.Size) + ")"
				}
				rows = append(rows, []string{
					r.AssetID.String(),
					kind,
					status,
					strconv.Itoa(r.Bytes),
					r.ContentType,
					r.Duration.Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Asset", "Kind", "Status", "Bytes", "Type", "Time"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
			))

			summary := prefetch.Summarize(results)
			fmt.Fprintf(out, "%s: %d fetched, %d failed, %d bytes\n", a.AlbumName, summary.OK, summary.Failed, summary.Bytes)

			if runErr != nil {
				return runErr
			}
			if summary.Failed > 0 {
				return errors.New("some media could not be fetched")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&originals, "originals", false, "Also fetch original assets")
	cmd.Flags().BoolVar(&preview, "preview", false, "Fetch the preview thumbnail variant")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel fetches (default from config)")
	return cmd
}
