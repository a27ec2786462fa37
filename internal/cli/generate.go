package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cigen-dev/cigen/internal/config"
	"github.com/cigen-dev/cigen/internal/detect"
	"github.com/cigen-dev/cigen/internal/generator"
	"github.com/cigen-dev/cigen/internal/model"
	"github.com/cigen-dev/cigen/internal/platform"
	"github.com/cigen-dev/cigen/internal/preset"
	"github.com/cigen-dev/cigen/internal/writer"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate CI configuration files",
	Long: `Generate CI configuration for one or more platforms.

The pipeline comes from exactly one source: --preset <id>, --file
<pipeline.yaml>, or project auto-detection in the output directory when
neither is given.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	presetID, _ := cmd.Flags().GetString("preset")
	file, _ := cmd.Flags().GetString("file")
	platformNames, _ := cmd.Flags().GetStringSlice("platform")
	stdout, _ := cmd.Flags().GetBool("stdout")

	// Bound to the flags, so config file and CIGEN_* env values apply
	// when the flag is not set explicitly.
	output := viper.GetString("output")
	force := viper.GetBool("force")
	if len(platformNames) == 0 {
		platformNames = viper.GetStringSlice("platforms")
	}

	if presetID != "" && file != "" {
		return errors.New("--preset and --file are mutually exclusive")
	}

	p, err := buildPipeline(presetID, file, output, cmd)
	if err != nil {
		return err
	}

	platforms, err := resolvePlatforms(platformNames)
	if err != nil {
		return err
	}

	results, err := generator.Run(log, generator.NewRegistry(), p, platforms)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	failed := 0
	out := &writer.Writer{Root: output, Force: force}
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Platform, res.Err)
			continue
		}
		if stdout {
			fmt.Fprintf(w, "# %s (%s)\n%s\n", res.Platform, res.Path, res.Content)
			continue
		}
		path, err := out.Write(res.Path, res.Content)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Platform, err)
			continue
		}
		fmt.Fprintf(w, "wrote %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d platforms failed", failed, len(results))
	}
	return nil
}

// buildPipeline resolves the pipeline source: explicit preset, pipeline
// file, or auto-detection against the output directory.
func buildPipeline(presetID, file, dir string, cmd *cobra.Command) (*model.Pipeline, error) {
	if file != "" {
		return config.Load(file)
	}

	opts := presetOptions(cmd)
	presets := preset.Builtin()

	if presetID == "" {
		res, err := detect.NewRegistry().Detect(dir)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "detected %s (%s)\n", res.PresetID, res.Reason)
		presetID = res.PresetID
		if opts.Version == "" {
			opts.Version = res.Version
		}
	}

	def, err := presets.Get(presetID)
	if err != nil {
		return nil, err
	}
	return def.Build(opts), nil
}

func presetOptions(cmd *cobra.Command) preset.Options {
	version, _ := cmd.Flags().GetString("toolchain-version")
	coverage, _ := cmd.Flags().GetBool("coverage")
	linter, _ := cmd.Flags().GetBool("lint")
	scan, _ := cmd.Flags().GetBool("security-scan")
	return preset.Options{
		Version:      version,
		Coverage:     coverage,
		Linter:       linter,
		SecurityScan: scan,
	}
}

func resolvePlatforms(names []string) ([]platform.Platform, error) {
	if len(names) == 0 {
		return platform.All(), nil
	}
	known := make(map[platform.Platform]bool)
	for _, id := range platform.All() {
		known[id] = true
	}
	out := make([]platform.Platform, 0, len(names))
	for _, name := range names {
		id := platform.Platform(name)
		if !known[id] {
			return nil, fmt.Errorf("unknown platform %q (known: %v)", name, platform.All())
		}
		out = append(out, id)
	}
	return out, nil
}

func init() {
	generateCmd.Flags().String("preset", "", "Preset id (see `cigen presets`)")
	generateCmd.Flags().String("file", "", "Pipeline YAML file")
	generateCmd.Flags().StringSliceP("platform", "p", nil, "Platforms to generate for (default all)")
	generateCmd.Flags().StringP("output", "o", ".", "Repository root to write into")
	generateCmd.Flags().Bool("force", false, "Overwrite existing files")
	generateCmd.Flags().Bool("stdout", false, "Print generated files instead of writing them")
	generateCmd.Flags().String("toolchain-version", "", "Toolchain version for preset pipelines")
	generateCmd.Flags().Bool("coverage", false, "Include coverage collection and upload")
	generateCmd.Flags().Bool("lint", false, "Include a lint job")
	generateCmd.Flags().Bool("security-scan", false, "Include a security scan job")

	viper.BindPFlag("output", generateCmd.Flags().Lookup("output"))
	viper.BindPFlag("force", generateCmd.Flags().Lookup("force"))
}
