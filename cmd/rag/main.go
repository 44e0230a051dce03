// Command rag answers a question about a fact corpus using retrieval-augmented
// generation.
//
// Usage:
//
//	rag [--config=config.yaml] [--corpus=cat-facts.txt] [--top=3]
//	echo "How much do cats sleep?" | rag
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
