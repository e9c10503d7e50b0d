package main

import (
	"context"
	"fmt"
	"os"

	"github.com/madkins23/go-mongo-guide/mdb"
)

func main() {
	target, err := mdb.TargetFromEnv()
	if err != nil {
		fmt.Printf("Bad connection target: %s\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		target.Database = os.Args[1]
	}

	err = mdb.WithSession(context.Background(), target, nil, func(access *mdb.Access) error {
		fmt.Printf("Connected to %s\n", target.Redacted())
		return nil
	})
	if err != nil {
		fmt.Printf("Unable to ping %s: %s\n", target.Redacted(), err)
		os.Exit(1)
	}
}
