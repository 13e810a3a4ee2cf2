package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"glot.fit/lingocart/internal/format"
	"glot.fit/lingocart/internal/langdetect"
)

func runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	outputFormat := fs.String("format", "text", "Output format (text or json)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "detect requires one document argument (file path or - for stdin)")
		printDetectUsage()
		return 2
	}

	content, err := readDocument(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	registry := format.NewRegistry()
	parser := registry.Detect(content)

	// Sample the extracted text rather than the raw document so markup
	// and keys do not skew the detector.
	var sample string
	for _, frag := range parser.Extract(content) {
		sample += frag.OriginalText + " "
		if len(sample) >= 2000 {
			break
		}
	}
	lang := langdetect.DetectISO6391(sample)

	switch *outputFormat {
	case "json":
		if err := printJSON(map[string]any{
			"content_type": parser.Type(),
			"valid":        parser.Validate(content),
			"source_lang":  lang,
		}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	default:
		fmt.Printf("content_type=%s valid=%t source_lang=%s\n", parser.Type(), parser.Validate(content), lang)
	}
	return 0
}

func printDetectUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingocart detect <file|-> [--format text|json]")
}
