// Package entrypoints defines an API for discovering and loading entry points:
// named references to importable objects that distributions advertise in
// entry_points.txt files inside their metadata directories.
//
// Discovery never imports anything.  Locating metadata directories on a search
// path and resolving group/name lookups is provided by one or more Resolver
// implementations (see drivers/fs); turning an EntryPoint into the object it
// names is a separate, explicit step (EntryPoint.Load) that delegates to an
// Importer, by default the in-process registry in the modules package.
package entrypoints
