package main

import (
	"context"
	"log"

	"github.com/nsqlite/litewrap/internal/liteshell"
)

func main() {
	if err := liteshell.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
