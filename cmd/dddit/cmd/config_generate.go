package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var configGen = &cobra.Command{
	Use:   "create",
	Short: "Create a config file",
	Long:  "Create a config file in the standard location ($HOME/.dddit/dddit.yaml)",
	Run: func(cmd *cobra.Command, args []string) {
		home, err := os.UserHomeDir()
		if err != nil {
			wrapFatalln("find home directory", err)
		}
		target := filepath.Join(home, ".dddit")
		if err := os.MkdirAll(target, 0700); err != nil {
			wrapFatalln("create config directory", err)
		}
		out := CLIConfig{
			Credential: config.Credential,
			Storage:    ddditFlags.root.storage,
			Path:       ddditFlags.root.path,
			Meshes:     ddditFlags.root.meshes,
			Materials:  ddditFlags.root.materials,
			Documents:  ddditFlags.root.documents,
			Username:   ddditFlags.user.Name,
		}
		buf, err := yaml.Marshal(out)
		if err != nil {
			wrapFatalln("marshal config", err)
		}
		if err := os.WriteFile(filepath.Join(target, "dddit.yaml"), buf, 0600); err != nil {
			wrapFatalln("write config file", err)
		}
	},
}

func init() {
	configCmd.AddCommand(configGen)
}
