package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/7otion/s7forge/internal/logging"
	"github.com/7otion/s7forge/internal/services"
)

const combinedLong = `Run several lookups in one invocation and print a single JSON object.

Each lookup starts with its command name as a flag:

  --workshop-items --item-ids 1,2,3
  --workshop-path
  --app-installation-path
  --steam-library-paths

Results are keyed <lookup>-<n>, where <n> is the position of the lookup on
the command line (workshop-items-0, workshop-path-1, ...). A failing lookup is reported as
{"error": "..."} without stopping the others.`

const (
	blockWorkshopItems       = "workshop-items"
	blockWorkshopPath        = "workshop-path"
	blockAppInstallationPath = "app-installation-path"
	blockSteamLibraryPaths   = "steam-library-paths"
)

type combinedBlock struct {
	name    string
	itemIDs []uint64
}

func (b combinedBlock) key(idx int) string {
	return b.name + "-" + strconv.Itoa(idx)
}

func newCombinedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:                "combined --<lookup> [options] [--<lookup> [options]]...",
		Short:              "Run several lookups and print one JSON object",
		Long:               combinedLong,
		DisableFlagParsing: true,
		Annotations:        map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if arg == "--help" || arg == "-h" {
					return cmd.Help()
				}
			}
			blocks, err := parseCombinedArgs(ctx.flags, args)
			if err != nil {
				return err
			}
			if err := ctx.flags.validate(); err != nil {
				return err
			}
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			if _, err := ctx.requireAppID(); err != nil {
				return err
			}

			reqCtx := ctx.requestContext(cmd)
			logger := logging.WithContext(reqCtx, ctx.log())
			results := make(map[string]any, len(blocks))
			for idx, block := range blocks {
				key := block.key(idx)
				value, err := ctx.runBlock(reqCtx, block)
				if err != nil {
					logger.Debug("combined lookup failed",
						logging.String("lookup", key),
						logging.String("kind", services.Kind(err)),
						logging.Error(err),
					)
					results[key] = map[string]string{"error": err.Error()}
					continue
				}
				results[key] = value
			}
			return writeJSON(cmd, results)
		},
	}
}

func (c *commandContext) runBlock(ctx context.Context, block combinedBlock) (any, error) {
	switch block.name {
	case blockWorkshopItems:
		return c.workshopItems(ctx, block.itemIDs)
	case blockWorkshopPath:
		return c.workshopPath()
	case blockAppInstallationPath:
		return c.appInstallationPath()
	case blockSteamLibraryPaths:
		return c.libraryPaths()
	default:
		return nil, fmt.Errorf("unknown lookup: %s", block.name)
	}
}

// parseCombinedArgs splits args into lookup blocks. Global flags may appear
// anywhere since cobra hands them through unparsed; they are applied to flags.
func parseCombinedArgs(flags *globalFlags, args []string) ([]combinedBlock, error) {
	var blocks []combinedBlock
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")
		next := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("missing value for %s", name)
			}
			i++
			return args[i], nil
		}

		switch name {
		case "--" + blockWorkshopItems, "--" + blockWorkshopPath, "--" + blockAppInstallationPath, "--" + blockSteamLibraryPaths:
			blocks = append(blocks, combinedBlock{name: strings.TrimPrefix(name, "--")})
		case "--item-ids":
			raw, err := next()
			if err != nil {
				return nil, err
			}
			if len(blocks) == 0 || blocks[len(blocks)-1].name != blockWorkshopItems {
				return nil, fmt.Errorf("unexpected argument: %s", arg)
			}
			ids, err := parseItemIDs(raw)
			if err != nil {
				return nil, err
			}
			blocks[len(blocks)-1].itemIDs = ids
		case "--app-id":
			raw, err := next()
			if err != nil {
				return nil, err
			}
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid app ID: %s", raw)
			}
			flags.appID = uint32(id)
		case "--config", "-c":
			raw, err := next()
			if err != nil {
				return nil, err
			}
			flags.config = raw
		case "--format":
			raw, err := next()
			if err != nil {
				return nil, err
			}
			flags.format = raw
		case "--verbose", "-v":
			flags.verbose = true
		default:
			return nil, fmt.Errorf("unexpected argument: %s", arg)
		}
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no lookups specified for combined")
	}
	return blocks, nil
}
