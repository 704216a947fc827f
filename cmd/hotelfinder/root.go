package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hotelfinder",
	Short: "Search and rank hotels across multiple sources",
	Long: `hotelfinder merges hotel results from Booking.com, Kayak and any
configured JSON feeds into one list ranked by rating and price.`,
	SilenceUsage: true,
}
