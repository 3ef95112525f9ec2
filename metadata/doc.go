// Package metadata contains facilities for reading distribution metadata files:
// the entry_points.txt declaration file, and the PKG-INFO header file.
//
// entry_points.txt is an INI-like, line oriented format.  A "[group]" line opens
// a group, and each following "name = target" line declares one entry point in
// it.  Blank lines and lines starting with '#' or ';' are ignored, and indented
// lines continue the previous value.
//
// Parsing is tolerant: a declaration that cannot be parsed is recorded as an
// *entrypoints.BadEntryPoint alongside the entry points that could, and never
// prevents the rest of the file from being read.  It is up to the caller to
// decide whether bad entries are skipped or surfaced.
package metadata
