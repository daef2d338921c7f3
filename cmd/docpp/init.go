package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c360studio/docpp/config"
)

// starterCatalog is the sample values catalog written by init, kept as a
// literal so it can carry comments for the person about to edit it.
const starterCatalog = `# Values catalog: each kind is addressable as @CONSTANTS_<KIND>@ where
# <KIND> is the kind name in uppercase. Entries render in file order.
version: 1
kinds:
  ecodes:
    - name: OK
      doc: Operation completed successfully.
    - name: ERROR
      doc: Operation failed.
`

func initCmd(opts *options) *cobra.Command {
	var userConfig bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter docpp.yaml and example catalog",
		Long: `Init writes a docpp.yaml into the current directory together with an
example values catalog under catalogs/, wired up as the CONSTANTS class.
Existing files are never overwritten.

With --user, the per-user config (~/.config/docpp/config.yaml) is created
instead, if it does not exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(opts.logLevel)
			if userConfig {
				return config.NewLoader(logger).EnsureUserConfig()
			}
			return initProject(cmd)
		},
	}

	cmd.Flags().BoolVar(&userConfig, "user", false, "Create the per-user config instead of a project config")
	return cmd
}

func initProject(cmd *cobra.Command) error {
	if _, err := os.Stat(config.ProjectConfigFile); err == nil {
		return fmt.Errorf("%s already exists", config.ProjectConfigFile)
	}
	catalogPath := filepath.Join("catalogs", "constants.yaml")
	if _, err := os.Stat(catalogPath); err == nil {
		return fmt.Errorf("%s already exists", catalogPath)
	}

	if err := os.MkdirAll(filepath.Dir(catalogPath), 0755); err != nil {
		return fmt.Errorf("create catalogs directory: %w", err)
	}
	if err := os.WriteFile(catalogPath, []byte(starterCatalog), 0644); err != nil {
		return fmt.Errorf("write starter catalog: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.Catalogs["CONSTANTS"] = config.CatalogConfig{
		Type: config.CatalogValues,
		Path: catalogPath,
	}
	if err := cfg.SaveToFile(config.ProjectConfigFile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s and %s\n", config.ProjectConfigFile, catalogPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Try: echo @CONSTANTS_ECODES@ | %s\n", appName)
	return nil
}
