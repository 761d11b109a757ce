package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alkime/pomodoro/internal/keyring"
	"gopkg.in/yaml.v3"
)

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	Show       ShowCmd       `cmd:"" help:"Print the resolved configuration"`
	SetToken   SetTokenCmd   `cmd:"" name:"set-token" help:"Store the control API token in system keychain"`
	ClearToken ClearTokenCmd `cmd:"" name:"clear-token" help:"Remove the control API token from system keychain"`
}

// ShowCmd prints the configuration after file, environment and flags.
type ShowCmd struct{}

// Run executes the show command.
func (c *ShowCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)

	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to print config: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to print config: %w", err)
	}

	for _, secret := range keyring.AllSecrets() {
		status := "not set"
		if keyring.IsSet(secret) {
			status = "configured"
		}

		fmt.Printf("# %s: %s\n", secret.DisplayName(), status)
	}

	return nil
}

// SetTokenCmd stores the control API token in the system keychain.
type SetTokenCmd struct {
	Token string `arg:"" help:"Bearer token required by the timer API"`
}

// Run executes the set-token command.
func (c *SetTokenCmd) Run() error {
	if err := keyring.Set(keyring.APIToken, strings.TrimSpace(c.Token)); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	fmt.Printf("%s stored in keychain\n", keyring.APIToken.DisplayName())

	return nil
}

// ClearTokenCmd removes the control API token.
type ClearTokenCmd struct{}

// Run executes the clear-token command.
func (c *ClearTokenCmd) Run() error {
	if err := keyring.Delete(keyring.APIToken); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	fmt.Printf("%s removed\n", keyring.APIToken.DisplayName())

	return nil
}
