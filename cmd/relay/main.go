package main

import (
	"os"

	"horse.fit/relay/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
