package main

import (
	"context"

	"tsb-banking/cmd/tsb-cli/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
