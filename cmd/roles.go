package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadgen-cli/internal/registry"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Print the effective role/task registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.Load(cfg.Registry.Path)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(reg); err != nil {
			return eris.Wrap(err, "encode registry")
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}
