// Package assets provides the stylesheets, page scripts and layout templates
// of the rendered site.
//
// Assets live under one root, embedded in the binary or on disk:
//
//	styles/{name}.css
//	scripts/{progress,router}.js
//	templates/{name}/{root,notes,index}.html
//
// EmbeddedLoader serves the built-in root. FilesystemLoader serves a
// directory and refuses reads that resolve outside it, symlinks included.
// AssetResolver layers a directory over the built-in assets so a site can
// override single files.
//
// Asset names are plain identifiers: no separators, no dots.
package assets
