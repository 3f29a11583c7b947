package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayfind-go/wayfind/internal/errors"
	"github.com/wayfind-go/wayfind/internal/routefile"
	"github.com/wayfind-go/wayfind/pkg/router"
)

func routesCmd() *cobra.Command {
	var basename string

	cmd := &cobra.Command{
		Use:   "routes <file>",
		Short: "Compile a route table and print the resolved tree",
		Long: `Compile a YAML route table the way the router does at startup and
print every resolved route: composed path, name, declared parameters,
and redirect targets. Malformed entries are reported and skipped, the
same way the router skips them.

Examples:
  wayfind routes routes.yaml
  wayfind routes routes.yaml --basename=/app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(args[0], basename)
		},
	}

	cmd.Flags().StringVarP(&basename, "basename", "b", "", "URL prefix applied to every route")

	return cmd
}

func runRoutes(path, basename string) error {
	prefabs, err := routefile.Load(path, nil)
	if err != nil {
		fmt.Print(errors.FromError(err, "W004").Format())
		return err
	}

	rt, err := router.New(router.Options{
		Routes:   prefabs,
		Basename: basename,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return err
	}

	for _, cfgErr := range rt.ConfigErrors() {
		if navErr := errors.FromError(cfgErr, "W001"); navErr != nil {
			fmt.Print(navErr.Format())
		}
	}

	count := 0
	rt.WalkRoutes(func(rc *router.RouteConfig) bool {
		count++
		fmt.Printf("  %-32s %s\n", displayPath(rc, basename), describeRoute(rc))
		return true
	})

	fmt.Println()
	if n := len(rt.ConfigErrors()); n > 0 {
		warn("%d route(s) compiled, %d skipped", count, n)
	} else {
		info("%d route(s) compiled", count)
	}
	return nil
}

func displayPath(rc *router.RouteConfig, basename string) string {
	if rc.Wildcard() {
		return basename + "/* (catch-all)"
	}
	return basename + rc.Path
}

func describeRoute(rc *router.RouteConfig) string {
	var parts []string
	if rc.Name != "" {
		parts = append(parts, "name="+rc.Name)
	}
	if keys := rc.ParamKeys(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.Name
		}
		parts = append(parts, "params="+strings.Join(names, ","))
	}
	switch redir := rc.Redirect.(type) {
	case string:
		parts = append(parts, "redirect="+redir)
	case router.RawLocation:
		if redir.Name != "" {
			parts = append(parts, "redirect=name:"+redir.Name)
		} else {
			parts = append(parts, "redirect="+redir.Path)
		}
	case nil:
	default:
		parts = append(parts, "redirect=dynamic")
	}
	if rc.Component == nil && rc.Redirect == nil {
		parts = append(parts, "pass-through")
	}
	return strings.Join(parts, "  ")
}
