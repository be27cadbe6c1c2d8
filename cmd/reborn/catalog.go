package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hosler/pyReborn-sub001/internal/packets"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the packet catalog grouped by category",
	Run:   CatalogCommand,
}

func CatalogCommand(_ *cobra.Command, _ []string) {
	byCategory := make(map[packets.Category][]packets.Definition)
	for _, def := range packets.Catalog() {
		byCategory[def.Category] = append(byCategory[def.Category], def)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)

	for _, cat := range categories {
		defs := byCategory[packets.Category(cat)]
		fmt.Printf("%s (%d)\n", cat, len(defs))
		for _, def := range defs {
			fmt.Printf("  %3d  %s\n", def.ID, def.Name)
		}
		fmt.Println()
	}

	fmt.Printf("%d documented packet types\n", packets.CatalogSize())
}
