package types

// Version is the canonical project version reported by the CLI.
const Version = "0.2.0"
