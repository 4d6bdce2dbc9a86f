package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/doanchienthangdev/omgkit/pkg/logger"
	"github.com/doanchienthangdev/omgkit/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("OMGKIT")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.omgkit")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "omgkit",
	Short: "Toolkit for managing prompt pack content",
	Long: `omgkit manages markdown prompt content: slash commands, agents, skills,
and workflows. It discovers content across repo-local and user-global
directories, renders command prompts with arguments, lints front-matter,
installs packs from GitHub, and serves the catalog over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.SetLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))

		fields := map[string]interface{}{}
		cmd.Flags().Visit(func(flag *pflag.Flag) {
			fields["flag."+flag.Name] = flag.Value.String()
		})
		logger.G(cmd.Context()).WithFields(fields).Debug("command invoked")
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(workflowCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
