// =============================================================================
// Rejsekort Parser - Main Entry Point
// =============================================================================
//
// USAGE:
//   rejsekort process [files...]  - Extract journeys from receipts
//   rejsekort text <file>         - Print the text extracted from a receipt
//   rejsekort version             - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : extraction engine, writers, configuration
//   - pkg/       : file system helpers
//
// =============================================================================

package main

import (
	"github.com/michaelloftdk/rejsekort-parser/cmd"
)

func main() {
	cmd.Execute()
}
