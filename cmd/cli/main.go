// The cli command bootstraps and inspects the card service from a terminal.
// Its main job is creating the first admin account, which the HTTP surface
// deliberately cannot do.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/dkurilov/bankcards/infra/initializer"
	"github.com/dkurilov/bankcards/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load(".env")
	if err != nil {
		color.Red("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		color.Red("Failed to initialize dependencies: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "create-admin":
		if len(os.Args) < 4 {
			fmt.Println("Usage: cli create-admin <username> <email>")
			os.Exit(1)
		}
		username, email := os.Args[2], os.Args[3]

		password, err := readPassword()
		if err != nil {
			color.Red("Failed to read password: %v", err)
			os.Exit(1)
		}

		admin, err := deps.Services.User.CreateAdmin(ctx, username, email, password)
		if err != nil {
			color.Red("Failed to create admin: %v", err)
			os.Exit(1)
		}
		color.Green("Admin created: id=%s username=%s", admin.ID, admin.Username)
	case "migrate":
		// InitializeDependencies already ran the migration.
		color.Green("Schema is up to date")
	default:
		color.Yellow("Unknown command: %s", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  create-admin <username> <email>   create an admin account")
	fmt.Println("  migrate                           run schema migration")
}
