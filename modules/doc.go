// Package modules is an in-process module registry that plays the part of the
// host import mechanism for entry points.
//
// Go cannot import code by name at runtime, so packages that want their
// objects reachable from entry_points.txt declarations register them here,
// typically from an init function, in the same way database/sql drivers
// register themselves:
//
//	func init() {
//	    modules.Register("mytool.cli", modules.Attrs{
//	        "main": Main,
//	    })
//	}
//
// A declaration such as "run = mytool.cli:main" then loads Main.  Modules may
// also be registered lazily with RegisterFunc; their initializer runs at most
// once, on first import.
//
// The registry also owns the default search path used by discovery when a
// caller does not supply one.
package modules
