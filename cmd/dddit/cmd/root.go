package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/PasqualeSorrentino/ddditserver/pkg/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dddit",
	Short: "Dddit versions 3D assets",
	Long: `Dddit versions 3D assets the way git versions source code.

Meshes and material sets are pushed as immutable versions on branches,
organized per resource inside repositories. Version payloads land in
object storage, their metadata documents in a document store, and the
structure linking them all in a graph index.
`,
}

var config *CLIConfig

// used to patch over calls to os.Exit() during test
var logFatalln = log.Fatalln
var osExit = os.Exit

func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
		return
	}
	logFatalln(fmt.Errorf("%s: %w", msg, err))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
	addUserFlag(rootCmd)
	addStorageFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("storage", storageLocal)
	viper.SetDefault("path", defaultStorePath())
	if os.Getenv("DDDIT_CONFIG") != "" {
		// Use config file from the flag.
		viper.SetConfigFile(os.Getenv("DDDIT_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.dddit")
		viper.AddConfigPath("/etc/dddit")
		viper.SetConfigName("dddit")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setDdditParams(&ddditFlags)
	if config.Credential != "" {
		_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", config.Credential)
	}
	if err := metrics.Init(); err != nil {
		logFatalln(err)
	}
}
