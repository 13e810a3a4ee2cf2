package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"glot.fit/lingocart/internal/format"
)

func runExtract(args []string) int {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	contentType := fs.String("content-type", "", "Force a content type instead of autodetecting (html, markdown, editorjs, grapejs, json)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "extract requires one document argument (file path or - for stdin)")
		printExtractUsage()
		return 2
	}

	content, err := readDocument(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	registry := format.NewRegistry()
	var parser format.Parser
	if strings.TrimSpace(*contentType) != "" {
		parser, err = registry.ByType(*contentType)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	} else {
		parser = registry.Detect(content)
	}

	frags := parser.Extract(content)
	if err := printJSON(map[string]any{
		"content_type": parser.Type(),
		"count":        len(frags),
		"fragments":    frags,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printExtractUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingocart extract <file|-> [--content-type html]")
}
