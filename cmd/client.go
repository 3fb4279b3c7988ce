package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"datafeed/client"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

func defaultFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Usage:   "The host to connect to",
			Value:   "http://localhost:8000",
			Sources: cli.EnvVars("DATAFEED_HOST"),
		},
	}
}

func GetClientCmd(action string) *cli.Command {
	if action == "get-data" || action == "data" {
		return &cli.Command{
			Name:  "get-data",
			Usage: "Fetch the dataset",
			Flags: defaultFlags(),
			Action: func(_ context.Context, c *cli.Command) error {
				raw, err := client.NewClient(c.String("host")).GetData()
				if err != nil {
					return fmt.Errorf("failed to get data: %w", err)
				}
				return printJSON(c.Root().Writer, raw, isTerminal(c.Root().Writer))
			},
		}
	} else if action == "health" {
		return &cli.Command{
			Name:  "health",
			Usage: "Show server health",
			Flags: defaultFlags(),
			Action: func(_ context.Context, c *cli.Command) error {
				resp, err := client.NewClient(c.String("host")).Health()
				if resp != nil {
					raw, encErr := json.Marshal(resp)
					if encErr != nil {
						return encErr
					}
					if printErr := printJSON(c.Root().Writer, raw, isTerminal(c.Root().Writer)); printErr != nil {
						return printErr
					}
				}
				if err != nil {
					return fmt.Errorf("server unhealthy: %w", err)
				}
				return nil
			},
		}
	} else if action == "stats" {
		return &cli.Command{
			Name:  "stats",
			Usage: "Show request counts per path and status",
			Flags: append(defaultFlags(), &cli.DurationFlag{
				Name:  "since",
				Usage: "only count requests newer than this, e.g. 24h",
			}),
			Action: func(_ context.Context, c *cli.Command) error {
				var since time.Time
				if d := c.Duration("since"); d > 0 {
					since = time.Now().Add(-d)
				}
				resp, err := client.NewClient(c.String("host")).RequestStats(since)
				if err != nil {
					return fmt.Errorf("failed to get stats: %w", err)
				}
				raw, err := json.Marshal(resp)
				if err != nil {
					return err
				}
				return printJSON(c.Root().Writer, raw, isTerminal(c.Root().Writer))
			},
		}
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printJSON(w io.Writer, raw []byte, indent bool) error {
	if indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err == nil {
			raw = buf.Bytes()
		}
	}
	raw = bytes.TrimRight(raw, "\n")
	_, err := fmt.Fprintf(w, "%s\n", raw)
	return err
}
