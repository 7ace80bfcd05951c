package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/hivecore/hivemon/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage gateway profiles",
	Long:  `Manage connection profiles for different HiveCore gateways.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for name, profile := range cfg.Profiles {
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			fmt.Printf("    Host: %s\n", profile.Host)
			fmt.Printf("    Inference port: %d\n", profile.InferPort)
			fmt.Printf("    Management port: %d\n", profile.ManagePort)
			fmt.Printf("    Client token: %s\n", setOrNot(profile.ClientToken))
			fmt.Printf("    Admin token: %s\n", setOrNot(profile.AdminToken))
			fmt.Println()
		}
	},
}

func setOrNot(token string) string {
	if token == "" {
		return "Not set"
	}
	return "Set"
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName := args[0]
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		fmt.Printf("Profile: %s\n", profileName)
		fmt.Printf("Host: %s\n", profile.Host)
		fmt.Printf("Inference API: %s\n", profile.InferURL())
		fmt.Printf("Management API: %s\n", profile.ManageURL())
		fmt.Printf("Client token: %s\n", setOrNot(profile.ClientToken))
		fmt.Printf("Admin token: %s\n", setOrNot(profile.AdminToken))
	},
}

// promptProfile walks through the connection settings, pre-filled from the
// given defaults.
func promptProfile(defaults config.Profile) (config.Profile, error) {
	profile := defaults

	hostPrompt := promptui.Prompt{
		Label:   "Gateway host (e.g. http://10.0.0.2)",
		Default: defaults.Host,
	}
	host, err := hostPrompt.Run()
	if err != nil {
		return profile, err
	}
	profile.Host = host

	inferDefault := defaults.InferPort
	if inferDefault == 0 {
		inferDefault = 6666
	}
	inferPrompt := promptui.Prompt{
		Label:    "Inference API port",
		Default:  strconv.Itoa(inferDefault),
		Validate: validatePort,
	}
	inferPort, err := inferPrompt.Run()
	if err != nil {
		return profile, err
	}
	profile.InferPort, _ = strconv.Atoi(inferPort)

	manageDefault := defaults.ManagePort
	if manageDefault == 0 {
		manageDefault = 6668
	}
	managePrompt := promptui.Prompt{
		Label:    "Management API port",
		Default:  strconv.Itoa(manageDefault),
		Validate: validatePort,
	}
	managePort, err := managePrompt.Run()
	if err != nil {
		return profile, err
	}
	profile.ManagePort, _ = strconv.Atoi(managePort)

	clientPrompt := promptui.Prompt{
		Label:   "Client token",
		Default: defaults.ClientToken,
		Mask:    '*',
	}
	profile.ClientToken, err = clientPrompt.Run()
	if err != nil {
		return profile, err
	}

	adminPrompt := promptui.Prompt{
		Label:   "Admin token",
		Default: defaults.AdminToken,
		Mask:    '*',
	}
	profile.AdminToken, err = adminPrompt.Run()
	if err != nil {
		return profile, err
	}

	return profile, nil
}

func validatePort(input string) error {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label: "Profile name",
			}
			profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}

		if existing, exists := cfg.Profiles[profileName]; exists && existing.Host != "" {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		profile, err := promptProfile(config.Profile{})
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			profileName, err = pickProfile(cfg, "Select profile to edit", false)
			if err != nil {
				log.Fatalf("Selection failed: %v", err)
			}
		}

		existing, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		profile, err := promptProfile(existing)
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' updated successfully!\n", profileName)
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			profileName, err = pickProfile(cfg, "Select profile to delete", false)
			if err != nil {
				log.Fatalf("Selection failed: %v", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'? (y/N)", profileName),
			IsConfirm: true,
		}
		if _, err = confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return
		}

		if cfg.ActiveProfile == profileName {
			for name := range cfg.Profiles {
				if name != profileName {
					cfg.ActiveProfile = name
					break
				}
			}
			// The last profile is replaced by an empty default.
			if len(cfg.Profiles) == 1 {
				cfg.ActiveProfile = "default"
				cfg.Profiles["default"] = config.Profile{
					InferPort:  6666,
					ManagePort: 6668,
				}
			}
		}

		delete(cfg.Profiles, profileName)
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' deleted successfully!\n", profileName)
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			profileName, err = pickProfile(cfg, "Select profile to switch to", true)
			if err != nil {
				log.Fatalf("Selection failed: %v", err)
			}
			if profileName == "" {
				fmt.Println("No other profiles available to switch to")
				return
			}
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		cfg.ActiveProfile = profileName
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Switched to profile '%s'\n", profileName)
	},
}

// pickProfile shows a selection list of profile names. With skipActive the
// current profile is excluded; an empty string means nothing to pick.
func pickProfile(cfg *config.Config, label string, skipActive bool) (string, error) {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		if skipActive && name == cfg.ActiveProfile {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		if skipActive {
			return "", nil
		}
		return "", fmt.Errorf("no profiles available")
	}

	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	return name, err
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
