package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Credential string `json:"credential" yaml:"credential"` // Credentials to use for GCS
	Storage    string `json:"storage" yaml:"storage"`       // Backend kind: local, gcs or s3
	Path       string `json:"path" yaml:"path"`             // Base directory for the local backend
	Meshes     string `json:"meshes" yaml:"meshes"`         // Bucket holding mesh payloads
	Materials  string `json:"materials" yaml:"materials"`   // Bucket holding material payloads
	Documents  string `json:"documents" yaml:"documents"`   // Bucket holding version documents
	Username   string `json:"username" yaml:"username"`     // Default acting user
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setDdditParams(flags *flagsT) {
	if flags.root.storage == "" {
		flags.root.storage = c.Storage
	}
	if flags.root.path == "" {
		flags.root.path = c.Path
	}
	if flags.root.meshes == "" {
		flags.root.meshes = c.Meshes
	}
	if flags.root.materials == "" {
		flags.root.materials = c.Materials
	}
	if flags.root.documents == "" {
		flags.root.documents = c.Documents
	}
	if flags.user.Name == "" {
		flags.user.Name = c.Username
	}
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage a config",
	Long: `Commands to manage dddit CLI config.

Configuration for dddit is the common set of flags that are needed for most commands and do not change across runs,
analogous to "git config ...". `,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
