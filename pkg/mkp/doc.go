// Package mkp packs and unpacks extension packages.
//
// Loading:
//
//	pkg, err := mkp.LoadFile("plugin-1.0.mkp")
//	title := pkg.Info()["title"]
//	err = pkg.ExtractFiles("/opt/site/local/share")
//
// Packing, with info["files"] typically filled from discovery.FindFiles:
//
//	err := mkp.PackToFile(info, "src", "plugin-1.0.mkp")
//
// Dist combines both steps: it discovers the files, validates the metadata
// and writes <name>-<version>.mkp.
package mkp
