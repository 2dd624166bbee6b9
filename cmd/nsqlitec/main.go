package main

import (
	"context"
	"log"

	"github.com/nsqlite/nsqlitec/internal/nsqlitec"
)

func main() {
	if err := nsqlitec.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
