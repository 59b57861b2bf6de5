// Package menu is the interactive operator menu. It owns input handling
// only: the fully built list of option names comes in, the chosen index and
// extra kernel parameters go back out through the launcher callbacks.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

// BootFn launches the boot option at index with extra kernel parameters.
// It returns only when the launch failed.
type BootFn func(ctx context.Context, index int, extraParams string) error

// Config configures the menu.
type Config struct {
	Names             []string
	PersistencePreset bool
	Boot              BootFn
	DirectBoot        BootFn
}

// Run drives the menu until the operator boots something or input ends.
// A failed launch returns to the prompt; what to do next is the operator's
// decision.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		lines := make(chan string)
		spawn("input", parallel.Fail, func(ctx context.Context) error {
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-ctx.Done():
					return errors.WithStack(ctx.Err())
				}
			}
			if err := scanner.Err(); err != nil {
				return errors.WithStack(err)
			}
			return errors.New("console input closed")
		})
		spawn("prompt", parallel.Exit, func(ctx context.Context) error {
			return promptLoop(ctx, lines, out, cfg)
		})
		return nil
	})
}

func promptLoop(ctx context.Context, lines <-chan string, out io.Writer, cfg Config) error {
	log := logger.Get(ctx)

	var extraParams string
	persistence := false

	list(out, cfg)
	for {
		fmt.Fprint(out, "> ")

		var line string
		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case line = <-lines:
		}

		command, argument, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch command {
		case "":
			list(out, cfg)
		case "l":
			list(out, cfg)
		case "o":
			extraParams = strings.TrimSpace(argument)
			fmt.Fprintf(out, "Boot options set to: %s\n", extraParams)
		case "p":
			if !cfg.PersistencePreset {
				fmt.Fprintln(out, "No persistence file is present on this media.")
				continue
			}
			persistence = !persistence
			fmt.Fprintf(out, "Persistence enabled: %t\n", persistence)
		case "d":
			index, err := strconv.Atoi(argument)
			if err != nil {
				fmt.Fprintln(out, "Usage: d <number>")
				continue
			}
			if err := cfg.DirectBoot(ctx, index, effectiveParams(extraParams, persistence)); err != nil {
				log.Error("Boot failed", zap.Error(err))
			}
		default:
			index, err := strconv.Atoi(command)
			if err != nil {
				fmt.Fprintf(out, "Unrecognized command: %s\n", command)
				continue
			}
			if err := cfg.Boot(ctx, index, effectiveParams(extraParams, persistence)); err != nil {
				log.Error("Boot failed", zap.Error(err))
			}
		}
	}
}

func list(out io.Writer, cfg Config) {
	fmt.Fprintln(out, "Select an operating system to boot:")
	for i, name := range cfg.Names {
		fmt.Fprintf(out, "  %d. %s\n", i, name)
	}
	fmt.Fprintln(out, "Commands: <number> boot, d <number> boot directly, o <options> set boot options, p toggle persistence, l list")
	if cfg.PersistencePreset {
		fmt.Fprintln(out, "Found a persistence file! Enable it with the p command.")
	}
}

func effectiveParams(extraParams string, persistence bool) string {
	if !persistence {
		return extraParams
	}
	return strings.TrimSpace(extraParams + " persistent")
}
