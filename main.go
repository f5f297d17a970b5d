package main

import (
	"context"
	"os"
	"syscall"

	"scheduled-uploader/cmd"
)

func main() {
	ctx, stop := cmd.InterruptContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
