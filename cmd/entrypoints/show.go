package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var show cli.Command = cli.Command{
	Name:  "show",
	Usage: "Show a single entry point",
	Description: `Given a group and a name, show the entry point a lookup would
	resolve to, and the distribution that provides it.`,
	ArgsUsage: "group name",

	Action: func(c *cli.Context) error {
		return showAction(os.Stdout, c.Args())
	},
}

func showAction(out io.Writer, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected a group and a name")
	}

	ep, err := newDriver().Single(args[0], args[1], nil)
	if err != nil {
		return errors.Wrapf(err, "lookup failed")
	}

	fmt.Fprintf(out, "name:    %s\n", ep.Name)
	fmt.Fprintf(out, "module:  %s\n", ep.ModuleName)
	if ep.ObjectName != "" {
		fmt.Fprintf(out, "object:  %s\n", ep.ObjectName)
	}
	if ep.Extras != nil {
		fmt.Fprintf(out, "extras:  %s\n", strings.Join(ep.Extras, ", "))
	}
	if ep.Distro != nil {
		fmt.Fprintf(out, "distro:  %s\n", ep.Distro)
	}
	return nil
}
