package main

import "github.com/LeJamon/goTicketd/internal/cli"

func main() {
	cli.Execute()
}
