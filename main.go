package main

import "github.com/tsfarizi/cbt-mcp-playground/cmd"

func main() {
	cmd.Execute()
}
