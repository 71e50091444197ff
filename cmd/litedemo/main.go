package main

import (
	"context"
	"log"

	"github.com/nsqlite/litewrap/internal/litedemo"
)

func main() {
	if err := litedemo.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
