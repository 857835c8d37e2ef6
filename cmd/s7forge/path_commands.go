package main

import (
	"github.com/spf13/cobra"
)

func newWorkshopPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "workshop-path",
		Short: "Print the workshop content directory of an app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.workshopPath()
			if err != nil {
				return err
			}
			return ctx.writePaths(cmd, path, path)
		},
	}
}

func newAppInstallationPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "app-installation-path",
		Short: "Print the installation directory of an app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.appInstallationPath()
			if err != nil {
				return err
			}
			return ctx.writePaths(cmd, path, path)
		},
	}
}

func newSteamLibraryPathsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "steam-library-paths",
		Short: "List the Steam library folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ctx.libraryPaths()
			if err != nil {
				return err
			}
			return ctx.writePaths(cmd, paths, paths...)
		},
	}
}

func (c *commandContext) workshopPath() (string, error) {
	appID, err := c.requireAppID()
	if err != nil {
		return "", err
	}
	locator, err := c.locator()
	if err != nil {
		return "", err
	}
	return locator.WorkshopPath(appID)
}

func (c *commandContext) appInstallationPath() (string, error) {
	appID, err := c.requireAppID()
	if err != nil {
		return "", err
	}
	locator, err := c.locator()
	if err != nil {
		return "", err
	}
	return locator.AppInstallationPath(appID)
}

func (c *commandContext) libraryPaths() ([]string, error) {
	locator, err := c.locator()
	if err != nil {
		return nil, err
	}
	return locator.LibraryPaths()
}

// writePaths prints value as JSON, or the given paths as a one-column table.
func (c *commandContext) writePaths(cmd *cobra.Command, value any, paths ...string) error {
	if !c.tableMode() {
		return writeJSON(cmd, value)
	}
	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, []string{p})
	}
	return writeTable(cmd, []string{"path"}, rows, nil)
}
