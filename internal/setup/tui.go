// Package setup implements the interactive onboarding wizard.
package setup

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/akashsuryawanshi04/invest-simulator/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal onboarding wizard and writes a generated
// config file the simulator starts from.
func RunTUI() error {
	var (
		identity string
		capital  string
		storage  string
		listen   string
		confirm  bool
	)

	// defaults
	capital = "500000"
	storage = "file"
	listen = ":8080"

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("INVESTSIM ONBOARDING"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Virtual money only. No real trades.\n"))

	// identity
	fmt.Println(stepStyle.Render("STEP 1: IDENTITY"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Description("Your virtual account is keyed by this address").
				Value(&identity).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("email cannot be empty")
					}
					if !strings.Contains(s, "@") {
						return fmt.Errorf("must look like an email address")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// starting capital
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("INVESTSIM ONBOARDING"))
	fmt.Println(stepStyle.Render("STEP 2: STARTING CAPITAL"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Starting Virtual Capital").
				Options(
					huh.NewOption("₹1 Lakh", "100000"),
					huh.NewOption("₹5 Lakhs", "500000"),
					huh.NewOption("₹10 Lakhs", "1000000"),
					huh.NewOption("₹25 Lakhs", "2500000"),
					huh.NewOption("₹1 Crore", "10000000"),
				).
				Value(&capital),
		),
	).Run()
	if err != nil {
		return err
	}

	// storage
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("INVESTSIM ONBOARDING"))
	fmt.Println(stepStyle.Render("STEP 3: PERSISTENCE"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should account snapshots live?").
				Options(
					huh.NewOption("Local files", "file"),
					huh.NewOption("Redis", "redis"),
				).
				Value(&storage),
			huh.NewInput().
				Title("HTTP listen address").
				Value(&listen),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("INVESTSIM ONBOARDING"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Identity: %s\nStarting capital: %s\nStorage: %s\nListen: %s\n",
		identity, capital, storage, listen,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	cfgTmp := config.ConfigTmp{
		Listen:       listen,
		Storage:      storage,
		Identity:     identity,
		StartingCash: capital,
	}
	if storage == "redis" {
		cfgTmp.RedisAddr = "localhost:6379"
	}

	data, err := yaml.Marshal(cfgTmp)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting simulator...", filename)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}
