package main

import (
	"context"

	"github.com/kbukum/kanko/cmd/kanko-export/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
