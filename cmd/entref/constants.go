package main

// Default limits for CLI commands.
const (
	ShortIDLength     = 8
	ShortDigestLength = 12
)

// Valid export formats.
var validFormats = []string{"json", "csv", "markdown"}

// Valid export orders.
var validOrders = []string{"name", "code"}
