package main

import (
	"context"
	"log"

	"github.com/nsqlite/nsqlitec/internal/nsqlitecbench"
)

func main() {
	if err := nsqlitecbench.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
