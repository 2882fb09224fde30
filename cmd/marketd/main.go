package main

import "github.com/LeJamon/nftmarketd/internal/cli"

func main() {
	cli.Execute()
}
