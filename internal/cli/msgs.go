package cli

// Command descriptions
const (
	MsgRootShort = "Build and unpack MKP extension packages"
	MsgRootLong  = `mkp builds MKP extension packages from a directory tree and unpacks them again.

A package is a tar archive holding an "info" metadata record and one inner
archive per file category (agents, checkman, checks, doc, inventory,
notifications, pnp-templates, web). The source tree has one directory per
category; hidden files and editor backups ending in ~ are never packed.`

	MsgFindShort     = "Show which files a source tree would contribute"
	MsgPackShort     = "Build a package from an info file and a source tree"
	MsgDistShort     = "Discover files and write <name>-<version>.mkp"
	MsgShowShort     = "Show the metadata of a package"
	MsgListShort     = "List the files stored in a package"
	MsgExtractShort  = "Write the files of a package to a directory"
	MsgValidateShort = "Check an info file against the metadata schema"
	MsgVersionShort  = "Print version information"

	MsgCompletionShort = "Generate shell completion script"

	MsgPackLong = `Pack builds a package from an info file and a source tree.

The info file may be TOML, YAML, JSON or a Python-style literal (.info). Its
"files" entry decides which files are packed; every listed file must exist.
Use 'mkp dist' to fill in "files" from the source tree instead.`

	MsgDistLong = `Dist discovers every packable file under the source tree, records the
result in the metadata and writes <name>-<version>.mkp to the dist
directory (pack.dist_dir, "dist" by default, relative to the source tree).

The metadata must carry a title, a name and a version.`

	MsgExtractLong = `Extract writes every file of every category archive to
<dest>/<category>/<path>, creating directories and replacing existing files.
The archives decide what is written, not the metadata's file list.`
)

// Examples
const (
	MsgPackExample = `  # Build from a TOML info file
  mkp pack info.toml ./src demo.mkp

  # Build an uncompressed package
  mkp pack --no-compress info.toml ./src demo.mkp`

	MsgDistExample = `  # Build dist/demo-1.0.mkp from the current directory
  mkp dist info.toml

  # Write somewhere else
  mkp dist -o /tmp/release info.toml ./src`
)

// Results and errors
const (
	MsgFilesTitle   = "Files in %s"
	MsgPackWritten  = "Wrote %s"
	MsgExtracted    = "Extracted %s to %s"
	MsgInfoValid    = "%s is valid"
	MsgPackVerified = "Metadata and archives of %s agree"
	MsgVersion      = "mkp version %s\n  commit: %s\n  built:  %s\n"

	MsgErrNoCommand = "no command specified"
)

// Flag descriptions
const (
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig         = "Configuration file (default: $XDG_CONFIG_HOME/mkp/config.toml)"
	MsgFlagFormat         = "Output format: auto, term, text or json"
	MsgFlagNoCompress     = "Write an uncompressed package"
	MsgFlagOutputDir      = "Directory to write the package to"
	MsgFlagSkipValidation = "Build even if the metadata fails the schema"
	MsgFlagDist           = "Also require the fields needed for 'mkp dist'"
	MsgFlagVerify         = "Fail if the metadata's file list and the archives disagree"
)
