package main

import "github.com/medequity/pharmarisk/internal/interfaces/cli"

func main() {
	cli.Execute()
}
