package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hytalekt/stubgen/enhance"
)

func newEnhanceCmd() *cobra.Command {
	var (
		model    string
		filter   string
		jobs     int
		cacheDir string
	)

	cmd := &cobra.Command{
		Use:   "enhance <dir>",
		Short: "Add model-generated documentation to a stub tree",
		Long: `Send each generated stub through the Gemini API to add Javadoc, rewriting
the files in place. Responses are cached on disk by content hash, so only
changed stubs cost API calls on a re-run.

Requires GEMINI_API_KEY in the environment or a .env file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := enhance.LoadConfig()
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}
			if model != "" {
				cfg.Model = model
			}
			if filter != "" {
				cfg.Filter = filter
			}
			if jobs > 0 {
				cfg.Jobs = jobs
			}
			if cacheDir != "" {
				cfg.CacheDir = cacheDir
			}

			gen, err := enhance.NewGemini(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("gemini: %w", err)
			}
			e, err := enhance.New(gen, cfg)
			if err != nil {
				return err
			}
			sum, err := e.Run(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("enhance: %w", err)
			}
			fmt.Printf("%d enhanced, %d from cache, %d skipped, %d failed\n",
				sum.Enhanced, sum.Cached, sum.Skipped, sum.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model name (overrides STUBGEN_MODEL)")
	cmd.Flags().StringVar(&filter, "filter", "", "only enhance classes whose simple name matches this pattern")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent API calls")
	cmd.Flags().StringVar(&cacheDir, "cache", "", "response cache directory (overrides STUBGEN_CACHE_DIR)")

	return cmd
}
