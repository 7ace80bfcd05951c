package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hivecore/hivemon/internal/app"
	"github.com/hivecore/hivemon/internal/config"
)

var runFor time.Duration

var rootCmd = &cobra.Command{
	Use:   "hivemon",
	Short: "Terminal monitor for a HiveCore worker fleet",
	Long:  `hivemon is a terminal client for monitoring HiveCore inference workers and managing the models they serve.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := ensureConfigured(); err != nil {
			log.Fatalf("Setup failed: %v", err)
		}

		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if runFor > 0 {
			application.StopAfter(runFor)
		}
		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

// ensureConfigured walks through the first-run setup when no profile points
// at a gateway yet.
func ensureConfigured() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.IsValid() {
		return nil
	}

	fmt.Println("No gateway configured yet; let's set one up.")
	profile, err := promptProfile(cfg.Current())
	if err != nil {
		return err
	}
	cfg.Profiles[cfg.ActiveProfile] = profile
	return cfg.Save()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().DurationVar(&runFor, "run-for", 0, "exit automatically after this duration")
	rootCmd.Flags().MarkHidden("run-for")

	rootCmd.AddCommand(profileCmd)
}
