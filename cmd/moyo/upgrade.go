package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/client/github"
	"github.com/garrettladley/moyo/internal/version"
)

const (
	repoOwner = "garrettladley"
	repoName  = "moyo"
)

func upgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Check for updates and install if available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			currentVersion := version.Get()

			gh := github.NewClient(github.WithToken(os.Getenv("GITHUB_TOKEN")))
			latest, err := gh.GetLatestRelease(ctx, repoOwner, repoName)
			if errors.Is(err, github.ErrNoRelease) {
				fmt.Println("No moyo release has been published yet")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to check for updates: %w", err)
			}

			if !version.IsNewer(currentVersion, latest.TagName) {
				fmt.Printf("moyo is up to date (%s)\n", currentVersion)
				return nil
			}

			fmt.Printf("Updating moyo %s -> %s\n", currentVersion, latest.TagName)

			if version.IsHomebrew() {
				return run(ctx, "brew", "upgrade", repoName)
			}
			return run(ctx, "go", "install", "github.com/"+repoOwner+"/"+repoName+"/cmd/moyo@latest")
		},
	}
}

func run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
