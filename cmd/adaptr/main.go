package main

import "github.com/Station-Manager/adaptr/internal/cli"

func main() {
	cli.Execute()
}
