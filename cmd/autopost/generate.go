package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autoposter/internal/domain"
	"autoposter/internal/generation"
)

func newGenerateCmd(opts *options) *cobra.Command {
	var (
		template   string
		vars       []string
		hashtags   int
		variations int
		improve    bool
		publish    bool
		status     bool
	)

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate post text, optionally publishing it",
		Long: `Generate post text from a prompt or a named template.

Templates: ` + strings.Join(generation.TemplateNames(), ", ") + `
Template values are given as --var name=value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.start(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if status {
				if !a.generator.CheckStatus(ctx) {
					return fmt.Errorf("generation backend is not available")
				}
				fmt.Fprintln(out, "generation backend ok")
				return nil
			}

			var text string
			switch {
			case template != "":
				t, ok := generation.Templates[template]
				if !ok {
					return fmt.Errorf("unknown template %q (have %s)", template, strings.Join(generation.TemplateNames(), ", "))
				}
				values, err := parseVars(vars)
				if err != nil {
					return err
				}
				text, err = a.generator.GeneratePost(ctx, t, values)
				if err != nil {
					return err
				}
			case len(args) > 0:
				prompt := strings.Join(args, " ")
				if improve {
					text = a.generator.ImproveText(ctx, prompt)
				} else {
					text = a.generator.GenerateText(ctx, prompt)
				}
			default:
				return fmt.Errorf("a prompt or --template is required")
			}

			if hashtags > 0 {
				text += "\n\n" + strings.Join(a.generator.GenerateHashtags(text, hashtags), " ")
			}

			if variations > 0 {
				for i, v := range a.generator.GenerateVariations(ctx, text, variations) {
					fmt.Fprintf(out, "--- variation %d ---\n%s\n", i+1, v)
				}
			} else {
				fmt.Fprintln(out, text)
			}

			if !publish {
				return nil
			}
			svc, err := a.publishing(ctx)
			if err != nil {
				return err
			}
			result := svc.PublishText(ctx, text)
			return report(out, []domain.PublishResult{result})
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "prompt template name")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "template value as name=value (repeatable)")
	cmd.Flags().IntVar(&hashtags, "hashtags", 0, "append this many hashtags")
	cmd.Flags().IntVar(&variations, "variations", 0, "print this many variations of the text")
	cmd.Flags().BoolVar(&improve, "improve", false, "improve the given text instead of generating from it")
	cmd.Flags().BoolVar(&publish, "publish", false, "publish the generated text")
	cmd.Flags().BoolVar(&status, "status", false, "check that the generation backend answers")
	return cmd
}

func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, want name=value", p)
		}
		vars[name] = value
	}
	return vars, nil
}
