package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/cmd/banks"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/cmd/chat"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/cmd/extract"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/cmd/root"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/cmd/seed"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(chat.Cmd)
	root.Cmd.AddCommand(seed.Cmd)
	root.Cmd.AddCommand(banks.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.Cmd.ExecuteContext(ctx)
	stop()
	// PersistentPostRun is skipped when a command fails
	root.Close()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
