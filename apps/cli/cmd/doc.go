// Package cmd implements the fixspec CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the registered suite
//   - list: Display every planned test instance and binding error
//   - init: Write a default configuration file
//   - version: Show fixspec version information
//   - completion: Generate shell completion scripts (provided by Cobra)
//
// The suite itself is Go code: a program builds its tree with the suite
// package and passes it to Execute.
package cmd
