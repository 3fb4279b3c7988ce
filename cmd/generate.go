package cmd

import (
	"context"
	"fmt"

	"datafeed/storage"

	"github.com/urfave/cli/v3"
)

func GenerateCli() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "write the sample users/orders dataset",
		Flags: append(storageFlags(), &cli.BoolFlag{
			Name:  "force",
			Usage: "overwrite an existing dataset",
		}),
		Action: func(_ context.Context, c *cli.Command) error {
			store, err := storage.New(c.String("storage-root"), c.String("dataset"))
			if err != nil {
				return err
			}

			if err := store.Write(storage.GenerateUsersOrders(), c.Bool("force")); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "JSON data saved to %s\n", store.Path())
			return nil
		},
	}
}
