// Command productapi is the entry point for the product catalog API.
//
//	productapi serve              start the HTTP server
//	productapi route:list         print the route table
//	productapi migrate            run pending migrations
//	productapi migrate:rollback   rollback the last batch
//	productapi migrate:status     show migration status
//	productapi db:seed            seed the database
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register migrations.
	_ "github.com/kunalsingla/product-api/database/migrations"
)

var rootCmd = &cobra.Command{
	Use:           "productapi",
	Short:         "Product catalog API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
