// Package config provides configuration loading and validation for meterledger.
package config

// CLI-facing defaults not sourced from viper, shared across cmd/meterledger
// subcommands.
const (
	// DefaultChartOutput is the default section-tree bar chart file name.
	// No command reads it: render sections' --out flag repeats the same
	// literal as its default, and invoice --chart takes an explicit path.
	DefaultChartOutput = "sections.html"

	// DefaultInvoiceAmountPrecision is the number of decimal places shown
	// in rendered invoice tables.
	DefaultInvoiceAmountPrecision = 3
)
