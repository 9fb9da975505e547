// bugctl is a small admin CLI for the bug tracker API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bugtracker/internal/client"
)

var apiClient *client.Client

var rootCmd = &cobra.Command{
	Use:           "bugctl",
	Short:         "Bug tracker admin CLI",
	Long:          "bugctl lists, reports, updates, and deletes bugs against a running bug tracker server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initClient)

	rootCmd.PersistentFlags().StringP("server", "s", "http://localhost:8080", "Base URL of the bug tracker server")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))

	viper.SetEnvPrefix("BUGTRACKER")
	viper.AutomaticEnv()
}

func initClient() {
	apiClient = client.New(viper.GetString("server"))
}
