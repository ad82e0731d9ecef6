// Command confver inspects versioned configuration documents: printing the
// schema version a document claims, and validating documents against an
// exported JSON Schema.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	confver "github.com/confver/confver"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false, Prefix: "confver"})

func main() {
	root := &cobra.Command{
		Use:           "confver",
		Short:         "inspect and validate versioned configuration documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), validateCmd())
	if err := root.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version <file>",
		Short: "print the config_version tag of a JSON/YAML/TOML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := confver.File(args[0]).Decode()
			if err != nil {
				return err
			}
			obj, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("%s: document root is not an object", args[0])
			}
			tag, ok := obj[confver.VersionKey].(string)
			if !ok {
				return fmt.Errorf("%s: no %s tag", args[0], confver.VersionKey)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag)
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "validate --schema schema.json <file...>",
		Short: "validate documents against an exported JSON Schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sch, err := jsonschema.Compile(schemaPath)
			if err != nil {
				return fmt.Errorf("compiling %s: %w", schemaPath, err)
			}
			failed := 0
			for _, path := range args {
				v, err := confver.File(path).Decode()
				if err != nil {
					logger.Error("decode failed", "file", path, "err", err)
					failed++
					continue
				}
				if err := sch.Validate(v); err != nil {
					logger.Error("invalid", "file", path, "err", err)
					failed++
					continue
				}
				logger.Info("ok", "file", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed validation", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "path to JSON Schema file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
