package main

import (
	"strings"

	"github.com/spf13/cobra"

	"autoposter/internal/domain"
	"autoposter/internal/rotation"
)

func newTextCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "text <message>",
		Short: "Publish a text post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.start(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.publishing(cmd.Context())
			if err != nil {
				return err
			}

			result := svc.PublishText(cmd.Context(), strings.Join(args, " "))
			return report(cmd.OutOrStdout(), []domain.PublishResult{result})
		},
	}
}

func newImageCmd(opts *options) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "image <path>",
		Short: "Publish an image with a caption",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.start(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.publishing(cmd.Context())
			if err != nil {
				return err
			}

			result := svc.PublishAsset(cmd.Context(), domain.MediaImage, args[0], message)
			return report(cmd.OutOrStdout(), []domain.PublishResult{result})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "caption (generated when empty)")
	return cmd
}

func newVideoCmd(opts *options) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "video <path>",
		Short: "Upload and publish a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.start(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.publishing(cmd.Context())
			if err != nil {
				return err
			}

			result := svc.PublishAsset(cmd.Context(), domain.MediaVideo, args[0], message)
			return report(cmd.OutOrStdout(), []domain.PublishResult{result})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "video description (generated when empty)")
	return cmd
}

func newSelectedCmd(opts *options) *cobra.Command {
	var (
		message string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "selected",
		Short: "Publish the assets listed in the selection file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.start(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.publishing(cmd.Context())
			if err != nil {
				return err
			}

			if file == "" {
				file = a.cfg.Project.SelectionFile
			}
			selection, err := rotation.LoadSelection(a.cfg.Project.Path(file))
			if err != nil {
				return err
			}

			paths := resolvePaths(a.cfg.Project.Path, selection.Paths())
			results := svc.PublishSelected(cmd.Context(), paths, message)
			return report(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "caption for every asset (generated when empty)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "selection file (default from config)")
	return cmd
}

func newRotateCmd(opts *options) *cobra.Command {
	var (
		message string
		count   int
	)

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Publish the next assets in rotation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.start(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.publishing(cmd.Context())
			if err != nil {
				return err
			}

			results, err := svc.PublishRotated(cmd.Context(), count, message)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "caption for every asset (generated when empty)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of assets to publish")
	return cmd
}

func resolvePaths(resolve func(string) string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = resolve(p)
	}
	return out
}
