package main

import (
	"fmt"
	"io"
	"os"

	"github.com/birkland/entrypoints/drivers/fs"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

var diagnose cli.Command = cli.Command{
	Name:  "diagnose",
	Usage: "Report distributions installed more than once",
	Description: `Scan the search path for distributions that are installed in more
	than one place.  Only the copy found first on the search path is visible
	to lookups by name; the others can only be seen with ls -a.`,

	Action: func(c *cli.Context) error {
		return diagnoseAction(os.Stdout)
	},
}

func diagnoseAction(out io.Writer) error {
	d := newDriver()

	dirs, err := scanEntries(d, d.SearchPath())
	if err != nil {
		return err
	}

	conflicts := findConflicts(dirs)
	if len(conflicts) == 0 {
		fmt.Fprintln(out, "No conflicting distributions found.")
		return nil
	}

	for _, c := range conflicts {
		fmt.Fprintf(out, "%s is installed %d times:\n", c[0].Dist.Name, len(c))
		for i, md := range c {
			state := "shadowed"
			if i == 0 {
				state = "visible "
			}
			fmt.Fprintf(out, "  %s  %s  %s\n", state, md.Dist, md.Location())
		}
	}
	return nil
}

// Scan each search path entry concurrently.  Results are kept in search path
// order.
func scanEntries(d *fs.Driver, path []string) ([]fs.MetadataDir, error) {
	found := make([][]fs.MetadataDir, len(path))

	var g errgroup.Group
	for i, entry := range path {
		i, entry := i, entry
		g.Go(func() error {
			dirs, err := d.Distributions([]string{entry})
			if err != nil {
				return errors.Wrapf(err, "could not scan %s", entry)
			}
			found[i] = dirs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []fs.MetadataDir
	for _, dirs := range found {
		all = append(all, dirs...)
	}
	return all, nil
}

// Group metadata directories by distribution name, keeping only names that
// occur more than once.  Conflicts are ordered by first occurrence.
func findConflicts(dirs []fs.MetadataDir) [][]fs.MetadataDir {
	var order []string
	byName := make(map[string][]fs.MetadataDir)
	for _, md := range dirs {
		if _, seen := byName[md.Dist.Name]; !seen {
			order = append(order, md.Dist.Name)
		}
		byName[md.Dist.Name] = append(byName[md.Dist.Name], md)
	}

	var conflicts [][]fs.MetadataDir
	for _, name := range order {
		if len(byName[name]) > 1 {
			conflicts = append(conflicts, byName[name])
		}
	}
	return conflicts
}
