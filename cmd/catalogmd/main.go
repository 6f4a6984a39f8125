package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	catalogmd "github.com/catalogmd/catalogmd"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalogmd",
		Short: "Compliance catalog markdown authoring",
		Long: `catalogmd turns a structured compliance catalog into editable
markdown, one file per control, and assembles the edited markdown back
into a catalog document. It can also validate edited markdown against a
structural template.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(assembleCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func baseConfig(logLevel string, schemaCheck bool) catalogmd.Config {
	cfg := catalogmd.DefaultConfig()
	cfg.Logging.Level = logLevel
	cfg.Logging.Format = "console"
	cfg.Schema.Validate = schemaCheck
	return cfg
}

func generateCmd() *cobra.Command {
	var (
		outDir      string
		headerPath  string
		profilePath string
		logLevel    string
		schemaCheck bool
	)

	cmd := &cobra.Command{
		Use:   "generate <catalog-file>",
		Short: "Write a catalog out as per-control markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolkit, err := catalogmd.New(baseConfig(logLevel, schemaCheck))
			if err != nil {
				return err
			}

			var header map[string]any
			if headerPath != "" {
				if header, err = loadYAMLMap(headerPath); err != nil {
					return err
				}
			}
			var profile *catalogmd.Profile
			if profilePath != "" {
				if profile, err = loadProfile(profilePath); err != nil {
					return err
				}
			}
			return toolkit.Generate(cmd.Context(), args[0], outDir, header, profile)
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "markdown", "output directory for control markdown")
	cmd.Flags().StringVarP(&headerPath, "yaml-header", "y", "", "YAML header file merged into every control")
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "profile supplying parameter overrides")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	cmd.Flags().BoolVar(&schemaCheck, "schema-check", false, "validate catalog JSON structure before use")
	return cmd
}

func assembleCmd() *cobra.Command {
	var (
		outPath      string
		originalPath string
		setParams    bool
		newVersion   string
		logLevel     string
		schemaCheck  bool
	)

	cmd := &cobra.Command{
		Use:   "assemble <markdown-dir>",
		Short: "Assemble edited control markdown back into a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := baseConfig(logLevel, schemaCheck)
			cfg.Assemble.SetParameters = setParams
			cfg.Assemble.Version = newVersion
			toolkit, err := catalogmd.New(cfg)
			if err != nil {
				return err
			}
			return toolkit.Assemble(cmd.Context(), args[0], outPath, originalPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "catalog.json", "assembled catalog file")
	cmd.Flags().StringVarP(&originalPath, "name", "n", "", "original catalog the markdown was generated from")
	cmd.Flags().BoolVarP(&setParams, "set-parameters", "s", false, "take edited header parameter values")
	cmd.Flags().StringVar(&newVersion, "version", "", "override the assembled catalog version")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	cmd.Flags().BoolVar(&schemaCheck, "schema-check", false, "validate catalog JSON structure before use")
	return cmd
}

func validateCmd() *cobra.Command {
	var (
		templatePath    string
		governedHeading string
		headerOnly      bool
		templateVersion bool
		logLevel        string
	)

	cmd := &cobra.Command{
		Use:   "validate <instance-dir>",
		Short: "Validate markdown instances against a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := baseConfig(logLevel, false)
			cfg.Template.GovernedHeading = governedHeading
			cfg.Template.TemplateVersion = templateVersion
			if headerOnly {
				cfg.Template.ValidateBody = false
			}
			toolkit, err := catalogmd.New(cfg)
			if err != nil {
				return err
			}

			results, err := toolkit.Validate(cmd.Context(), templatePath, args[0])
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range results {
				if res.Result.Valid {
					fmt.Printf("ok    %s\n", res.Path)
					continue
				}
				failed++
				fmt.Printf("FAIL  %s: %s\n", res.Path, res.Result.Reason)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d instances failed validation", failed, len(results))
			}
			fmt.Printf("%d instances conform to %s\n", len(results), templatePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "markdown template file")
	cmd.Flags().StringVarP(&governedHeading, "governed-heading", "g", "", "heading whose key/value body must stay complete")
	cmd.Flags().BoolVar(&headerOnly, "header-only", false, "validate the YAML header only")
	cmd.Flags().BoolVar(&templateVersion, "template-version", false, "require instances to carry the template version")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func loadYAMLMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func loadProfile(path string) (*catalogmd.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc struct {
		Profile *catalogmd.Profile `json:"profile" yaml:"profile"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Profile == nil {
		return nil, fmt.Errorf("%s has no profile document", path)
	}
	return doc.Profile, nil
}
