package main

import "github.com/jward/trellis"

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIValidation is the validate command's result payload.
type CLIValidation struct {
	Locales     []string             `json:"locales"`
	Diagnostics []trellis.Diagnostic `json:"diagnostics"`
	Errors      int                  `json:"errors"`
	Warnings    int                  `json:"warnings"`
}

// CLIResolved is the resolve command's result payload.
type CLIResolved struct {
	Locale string `json:"locale"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// CLIKeys is the keys command's result payload.
type CLIKeys struct {
	Locale string   `json:"locale"`
	Keys   []string `json:"keys"`
}
