package main

import (
	"context"
	"fmt"
	"os"

	"datafeed/api/reference"
	"datafeed/cmd"
	"datafeed/logging"

	ufcli "github.com/urfave/cli/v3"
)

// make version a variable so the build system can inject it
var version = "unknown"

func main() {
	var runCmd *ufcli.Command

	reference.VERSION = version

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "client":
			if len(os.Args) == 2 {
				fmt.Println("client command requires a subcommand: get-data, health or stats")
				os.Exit(2)
			}
			runCmd = cmd.GetClientCmd(os.Args[2])
			if runCmd == nil {
				fmt.Println("invalid client command")
				os.Exit(2)
			}
			os.Args = append(os.Args[:1], os.Args[3:]...)
		case "generate":
			runCmd = cmd.GenerateCli()
			os.Args = append(os.Args[:1], os.Args[2:]...)
		case "install":
			runCmd = cmd.InstallCli()
			os.Args = append(os.Args[:1], os.Args[2:]...)
		case "uninstall":
			runCmd = cmd.UninstallCli()
			os.Args = append(os.Args[:1], os.Args[2:]...)
		case "server":
			runCmd = cmd.ServerCli()
			os.Args = append(os.Args[:1], os.Args[2:]...)
		default:
			runCmd = cmd.ServerCli()
		}
	} else {
		runCmd = cmd.ServerCli()
	}

	runCmd.Version = version
	logging.Must(runCmd.Run(context.Background(), os.Args), "Command failed")
}
