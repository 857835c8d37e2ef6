package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/7otion/s7forge/internal/workshop"
)

func newWorkshopItemsCommand(ctx *commandContext) *cobra.Command {
	var itemIDs string

	cmd := &cobra.Command{
		Use:   "workshop-items",
		Short: "Show workshop item details with creator names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseItemIDs(itemIDs)
			if err != nil {
				return err
			}
			items, err := ctx.workshopItems(ctx.requestContext(cmd), ids)
			if err != nil {
				return err
			}
			if ctx.tableMode() {
				return writeTable(cmd, itemHeaders, itemRows(items), itemAligns)
			}
			return writeJSON(cmd, items)
		},
	}

	cmd.Flags().StringVar(&itemIDs, "item-ids", "", "Comma-separated workshop item ids")
	return cmd
}

func (c *commandContext) workshopItems(ctx context.Context, ids []uint64) ([]workshop.EnrichedItem, error) {
	appID, err := c.requireAppID()
	if err != nil {
		return nil, err
	}
	svc, err := c.workshopService()
	if err != nil {
		return nil, err
	}
	return svc.Items(ctx, appID, ids)
}

// parseItemIDs splits a comma-separated id list. An empty list is valid and
// yields no ids.
func parseItemIDs(raw string) ([]uint64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid item ID: %s", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var (
	itemHeaders = []string{"ID", "title", "creator", "file type", "updated", "subscriptions"}
	itemAligns  = []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}
)

func itemRows(items []workshop.EnrichedItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		updated := "-"
		if item.TimeUpdated > 0 {
			updated = time.Unix(item.TimeUpdated, 0).UTC().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			strconv.FormatUint(item.PublishedFileID, 10),
			item.Title,
			item.CreatorName,
			item.FileType,
			updated,
			strconv.FormatUint(item.Statistics.Subscriptions, 10),
		})
	}
	return rows
}
