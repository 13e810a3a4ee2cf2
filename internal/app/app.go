package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "detect":
		return runDetect(args[1:])
	case "extract":
		return runExtract(args[1:])
	case "translate":
		return runTranslate(args[1:])
	case "catalog":
		return runCatalog(args[1:])
	case "memory":
		return runMemory(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "lingocart CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingocart <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health     Verify database and translation-memory connectivity")
	fmt.Fprintln(os.Stderr, "  detect     Report the content format and source language of a document")
	fmt.Fprintln(os.Stderr, "  extract    Dump the translatable fragments of a document as JSON")
	fmt.Fprintln(os.Stderr, "  translate  Translate a document file or sweep untranslated catalog fields")
	fmt.Fprintln(os.Stderr, "  catalog    Ingest catalog fields awaiting translation")
	fmt.Fprintln(os.Stderr, "  memory     Inspect, export, import, or clear the translation memory")
	fmt.Fprintln(os.Stderr, "  serve      Start the Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"lingocart <command> -h\" for command-specific flags.")
}
