package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/mkp/internal/hashutil"
	"github.com/arthur-debert/mkp/internal/version"
	"github.com/arthur-debert/mkp/pkg/discovery"
	"github.com/arthur-debert/mkp/pkg/filesystem"
	"github.com/arthur-debert/mkp/pkg/metadata"
	"github.com/arthur-debert/mkp/pkg/mkp"
	"github.com/arthur-debert/mkp/pkg/schema"
	"github.com/arthur-debert/mkp/pkg/ui"
)

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "find [dir]",
		Short:   MsgFindShort,
		GroupID: "build",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			files, err := discovery.FindFiles(dir)
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderFiles(ui.FilesView{Title: fmt.Sprintf(MsgFilesTitle, dir), Files: files})
		},
	}
}

func newPackCmd(a *app) *cobra.Command {
	var noCompress bool

	cmd := &cobra.Command{
		Use:     "pack <info-file> <source-dir> <out.mkp>",
		Short:   MsgPackShort,
		Long:    MsgPackLong,
		Example: MsgPackExample,
		GroupID: "build",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			infoFile, sourceDir, outFile := args[0], args[1], args[2]
			cfg := a.settings()

			info, err := metadata.LoadInfoFile(infoFile)
			if err != nil {
				return err
			}
			if cfg.Pack.Validate {
				if err := schema.Validate(info); err != nil {
					return err
				}
			}

			opts := mkp.PackOptions{
				FS:       filesystem.NewOS(),
				Compress: cfg.Pack.Compress && !noCompress,
			}
			if err := mkp.PackToFileWithOptions(info, sourceDir, outFile, opts); err != nil {
				return err
			}

			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgPackWritten, outFile))
		},
	}

	cmd.Flags().BoolVar(&noCompress, "no-compress", false, MsgFlagNoCompress)
	return cmd
}

func newDistCmd(a *app) *cobra.Command {
	var (
		outputDir      string
		skipValidation bool
		noCompress     bool
	)

	cmd := &cobra.Command{
		Use:     "dist <info-file> [source-dir]",
		Short:   MsgDistShort,
		Long:    MsgDistLong,
		Example: MsgDistExample,
		GroupID: "build",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.settings()
			sourceDir := "."
			if len(args) == 2 {
				sourceDir = args[1]
			}
			outDir := outputDir
			if outDir == "" {
				outDir = filepath.Join(sourceDir, cfg.Pack.DistDir)
			}

			info, err := metadata.LoadInfoFile(args[0])
			if err != nil {
				return err
			}

			path, err := mkp.Dist(info, mkp.DistOptions{
				SourceDir:      sourceDir,
				OutputDir:      outDir,
				SkipValidation: skipValidation || !cfg.Pack.Validate,
				Pack: mkp.PackOptions{
					FS:       filesystem.NewOS(),
					Compress: cfg.Pack.Compress && !noCompress,
				},
			})
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgPackWritten, path))
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", MsgFlagOutputDir)
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, MsgFlagSkipValidation)
	cmd.Flags().BoolVar(&noCompress, "no-compress", false, MsgFlagNoCompress)
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var dist bool

	cmd := &cobra.Command{
		Use:     "validate <info-file>",
		Short:   MsgValidateShort,
		GroupID: "build",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := metadata.LoadInfoFile(args[0])
			if err != nil {
				return err
			}

			validate := schema.Validate
			if dist {
				validate = schema.ValidateDist
			}
			if err := validate(info); err != nil {
				return err
			}

			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgInfoValid, args[0]))
		},
	}

	cmd.Flags().BoolVar(&dist, "dist", false, MsgFlagDist)
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show <package.mkp>",
		Short:   MsgShowShort,
		GroupID: "inspect",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := mkp.LoadFile(args[0])
			if err != nil {
				return err
			}
			sum, err := hashutil.FileChecksum(filesystem.NewOS(), args[0])
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderPackage(ui.PackageView{
				Path:       args[0],
				Info:       pkg.Info(),
				Categories: pkg.Categories(),
				Checksum:   sum,
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:     "list <package.mkp>",
		Short:   MsgListShort,
		GroupID: "inspect",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := mkp.LoadFile(args[0])
			if err != nil {
				return err
			}
			if verify {
				if err := pkg.Verify(); err != nil {
					return err
				}
				log.Info().Str("path", args[0]).Msgf(MsgPackVerified, args[0])
			}

			files, err := pkg.Files()
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderFiles(ui.FilesView{Title: fmt.Sprintf(MsgFilesTitle, args[0]), Files: files})
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, MsgFlagVerify)
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "extract <package.mkp> <dest-dir>",
		Short:   MsgExtractShort,
		Long:    MsgExtractLong,
		GroupID: "inspect",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := mkp.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := pkg.ExtractFiles(args[1]); err != nil {
				return err
			}

			r, err := a.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgExtracted, args[0], args[1]))
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if ui.Resolve(ui.Format(a.settings().Output.Format), cmd.OutOrStdout()) == ui.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersion, info.Version, info.Commit, info.Date)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return GenCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}
