package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xhit/go-str2duration/v2"

	"github.com/unkn0wn-root/nscache"
)

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of key; arrays print as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callCtx(cmd)
			defer cancel()
			v, err := a.cache.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printValue(cmd, v)
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	var (
		ttl    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store value under key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseValue(args[1], asJSON)
			if err != nil {
				return err
			}
			ctx, cancel := a.callCtx(cmd)
			defer cancel()
			if !cmd.Flags().Changed("ttl") {
				return a.cache.Set(ctx, args[0], v)
			}
			d, err := str2duration.ParseDuration(ttl)
			if err != nil {
				return fmt.Errorf("--ttl: %w", err)
			}
			return a.cache.SetWithLifetime(ctx, args[0], v, d)
		},
	}
	cmd.Flags().StringVar(&ttl, "ttl", "", `lifetime such as "90s" or "1d"; 0 never expires (default: configured lifetime)`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "parse value as JSON; arrays become vectors or matrices")
	return cmd
}

func (a *app) delCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del <key>",
		Short: "Remove key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callCtx(cmd)
			defer cancel()
			return a.cache.Remove(ctx, args[0])
		},
	}
}

func (a *app) existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <key>",
		Short: "Print whether key is present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.callCtx(cmd)
			defer cancel()
			ok, err := a.cache.Exists(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func (a *app) expireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire <key> <ttl>",
		Short: "Reset the lifetime of key; 0 removes the expiry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := str2duration.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("ttl: %w", err)
			}
			ctx, cancel := a.callCtx(cmd)
			defer cancel()
			return a.cache.SetExpiration(ctx, args[0], d)
		},
	}
}

func (a *app) purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove every key of the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.callCtx(cmd)
			defer cancel()
			n, err := a.cache.RemoveAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", n)
			return nil
		},
	}
}

func parseValue(s string, asJSON bool) (nscache.Value, error) {
	if !asJSON {
		return nscache.Scalar(s), nil
	}
	var x any
	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(&x); err != nil {
		return nscache.Value{}, fmt.Errorf("--json: %w", err)
	}
	return nscache.ValueOf(x)
}

func printValue(cmd *cobra.Command, v nscache.Value) error {
	out := cmd.OutOrStdout()
	switch v.Kind() {
	case nscache.KindNull:
		fmt.Fprintln(out, "(nil)")
	case nscache.KindScalar:
		fmt.Fprintln(out, v.Text())
	default:
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		return enc.Encode(v.Any())
	}
	return nil
}
