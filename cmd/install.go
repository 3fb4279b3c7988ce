package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
)

const (
	serviceName = "datafeed"
	binaryName  = "datafeed"
	installPath = "/usr/local/bin"
	servicePath = "/etc/systemd/system"
	installDir  = "/var/lib/datafeed"
)

type envVar struct {
	Key   string
	Value string
}

// serviceEnv turns every flag of c that has an env source into the env var
// the installed server reads back, carrying the value c resolved. Values from
// the --config file are folded in first, since env vars take precedence over
// the file once the service runs.
func serviceEnv(c *cli.Command) ([]envVar, error) {
	if err := applyConfigFlag(c); err != nil {
		return nil, err
	}

	var env []envVar
	for _, f := range c.Flags {
		df, ok := f.(cli.DocGenerationFlag)
		if !ok || len(df.GetEnvVars()) == 0 {
			continue
		}
		name := f.Names()[0]
		value := fmt.Sprint(c.Value(name))

		// the service runs from installDir, so the config file must not move
		if name == "config" && value != "" {
			abs, err := filepath.Abs(value)
			if err != nil {
				return nil, fmt.Errorf("resolve config path: %w", err)
			}
			value = abs
		}

		env = append(env, envVar{Key: df.GetEnvVars()[0], Value: value})
	}
	return env, nil
}

var unitValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "%", "%%")

func serviceUnit(binary string, workDir string, env []envVar) string {
	var b strings.Builder
	for _, kv := range env {
		fmt.Fprintf(&b, "Environment=\"%s=%s\"\n", kv.Key, unitValueEscaper.Replace(kv.Value))
	}

	return fmt.Sprintf(`[Unit]
Description=datafeed dataset server
After=network.target

[Service]
Type=simple
WorkingDirectory=%s
%sExecStart=%s server
Restart=always
RestartSec=3

[Install]
WantedBy=multi-user.target
`, workDir, b.String(), binary)
}

func systemctl(args ...string) error {
	if err := exec.Command("systemctl", args...).Run(); err != nil {
		return fmt.Errorf("systemctl %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func serviceActive() bool {
	return exec.Command("systemctl", "is-active", "--quiet", serviceName).Run() == nil
}

func copyBinary(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source binary: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("failed to create destination binary: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy binary: %w", err)
	}
	return nil
}

// installBinary copies the running executable to dstPath. os.Args[0] is not
// used since it may be a bare name looked up in $PATH.
func installBinary(dstPath string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate running binary: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(self); err == nil {
		self = resolved
	}
	// reinstalling from the installed binary
	if self == dstPath {
		return nil
	}
	return copyBinary(self, dstPath)
}

func InstallCli() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "install datafeed as a systemd service",
		Flags: ServerCli().Flags,
		Action: func(_ context.Context, c *cli.Command) error {
			if os.Geteuid() != 0 {
				return fmt.Errorf("this command must be run as root (use sudo)")
			}
			out := c.Root().Writer

			env, err := serviceEnv(c)
			if err != nil {
				return err
			}

			unitPath := filepath.Join(servicePath, serviceName+".service")
			if _, err := os.Stat(unitPath); err == nil {
				fmt.Fprintln(out, "service is already installed, updating it")
				if serviceActive() {
					if err := systemctl("stop", serviceName); err != nil {
						return err
					}
				}
			}

			if err := os.MkdirAll(installDir, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", installDir, err)
			}

			binPath := filepath.Join(installPath, binaryName)
			fmt.Fprintf(out, "Installing binary to %s...\n", binPath)
			if err := installBinary(binPath); err != nil {
				return err
			}

			// relative paths are resolved against the service working directory
			unit := serviceUnit(binPath, installDir, env)
			fmt.Fprintln(out, "Creating systemd service...")
			if err := os.WriteFile(unitPath, []byte(unit), 0644); err != nil {
				return fmt.Errorf("failed to write service file: %w", err)
			}

			for _, args := range [][]string{{"daemon-reload"}, {"enable", serviceName}, {"start", serviceName}} {
				if err := systemctl(args...); err != nil {
					return err
				}
			}

			fmt.Fprintln(out, "Installation complete! Service status:")
			status := exec.Command("systemctl", "status", serviceName, "--no-pager")
			status.Stdout = out
			status.Stderr = c.Root().ErrWriter
			return status.Run()
		},
	}
}

func UninstallCli() *cli.Command {
	return &cli.Command{
		Name:  "uninstall",
		Usage: "remove the datafeed service and binary",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "purge",
				Usage: "also remove " + installDir + " with the dataset and request log",
			},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			if os.Geteuid() != 0 {
				return fmt.Errorf("this command must be run as root (use sudo)")
			}
			out := c.Root().Writer

			fmt.Fprintln(out, "Stopping and disabling service...")
			if serviceActive() {
				if err := systemctl("stop", serviceName); err != nil {
					return err
				}
			}
			if err := systemctl("disable", serviceName); err != nil {
				return err
			}

			fmt.Fprintln(out, "Removing service file...")
			if err := os.Remove(filepath.Join(servicePath, serviceName+".service")); err != nil {
				return fmt.Errorf("failed to remove service file: %w", err)
			}
			if err := systemctl("daemon-reload"); err != nil {
				return err
			}

			fmt.Fprintln(out, "Removing binary...")
			if err := os.Remove(filepath.Join(installPath, binaryName)); err != nil {
				return fmt.Errorf("failed to remove binary: %w", err)
			}

			if c.Bool("purge") {
				fmt.Fprintf(out, "Removing %s...\n", installDir)
				if err := os.RemoveAll(installDir); err != nil {
					return fmt.Errorf("failed to remove data files: %w", err)
				}
			}

			fmt.Fprintln(out, "Uninstallation complete!")
			return nil
		},
	}
}
