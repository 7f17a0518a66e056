package main

import "github.com/scatterhq/scatter/cmd"

func main() {
	cmd.Execute()
}
