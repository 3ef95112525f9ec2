package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/birkland/entrypoints"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var lsOpts = struct {
	all bool
}{}

var ls cli.Command = cli.Command{
	Name:  "ls",
	Usage: "List the entry points in a group",
	Description: `Given the name of a group, list the entry points registered in it.

	By default, each name is listed once, resolved the way a lookup of
	that name would be: the distribution earliest on the search path
	wins.  With -a, every entry point of every distribution is listed in
	search path order, including those hidden by an earlier one.

	For example, the following lists the console scripts of every
	distribution in ./site-packages

	  entrypoints -p ./site-packages ls -a console_scripts`,
	ArgsUsage: "group",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:        "all, a",
			Usage:       "List every entry point, including those shadowed by an earlier one",
			Destination: &lsOpts.all,
		},
	},

	Action: func(c *cli.Context) error {
		return lsAction(os.Stdout, c.Args())
	},
}

func lsAction(out io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one group name")
	}
	group := args[0]

	d := newDriver()

	var eps []entrypoints.EntryPoint
	if lsOpts.all {
		all, err := d.GroupAll(group, nil)
		if err != nil {
			return errors.Wrapf(err, "could not list group %s", group)
		}
		eps = all
	} else {
		named, err := d.GroupNamed(group, nil)
		if err != nil {
			return errors.Wrapf(err, "could not list group %s", group)
		}
		for _, ep := range named {
			eps = append(eps, ep)
		}
		sort.Slice(eps, func(i, j int) bool {
			return eps[i].Name < eps[j].Name
		})
	}

	for _, ep := range eps {
		fmt.Fprintln(out, ep)
	}
	return nil
}
