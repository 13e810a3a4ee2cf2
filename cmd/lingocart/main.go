package main

import (
	"os"

	"glot.fit/lingocart/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
