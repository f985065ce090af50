package cmd

import (
	"github.com/spf13/cobra"

	"recast/internal/config"
	"recast/internal/processor"
)

// conversionFlags are shared by convert and watch.
type conversionFlags struct {
	format      string
	quality     int
	compression int
	rescale     int
	output      string
	background  string
	recursive   bool
}

func (f *conversionFlags) register(cmd *cobra.Command) {
	def := config.Default()
	cmd.Flags().StringVarP(&f.format, "format", "f", def.Format, "output format: png, jpg, jpeg, webp, avif, bmp, ico")
	cmd.Flags().IntVarP(&f.quality, "quality", "q", def.Quality, "quality for jpeg, webp and avif (1-100)")
	cmd.Flags().IntVarP(&f.compression, "compression", "c", def.Compression, "png compression level (0-9)")
	cmd.Flags().IntVarP(&f.rescale, "rescale", "r", def.Rescale, "rescale percentage (10-500)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "destination folder (default home directory)")
	cmd.Flags().StringVar(&f.background, "background", def.Background, "fill color for transparency in jpeg and bmp output")
}

// settings loads the config file and lets explicitly set flags win.
func (f *conversionFlags) settings(cmd *cobra.Command) (*config.Config, processor.Request, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, processor.Request{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("quality") {
		cfg.Quality = f.quality
	}
	if flags.Changed("compression") {
		cfg.Compression = f.compression
	}
	if flags.Changed("rescale") {
		cfg.Rescale = f.rescale
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("background") {
		cfg.Background = f.background
	}
	if flags.Lookup("recursive") != nil && flags.Changed("recursive") {
		cfg.Recursive = f.recursive
	}

	if err := cfg.Validate(); err != nil {
		return nil, processor.Request{}, err
	}
	req, err := cfg.Request()
	if err != nil {
		return nil, processor.Request{}, err
	}
	return cfg, req, nil
}
