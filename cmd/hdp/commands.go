package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/herodotus/hdp-go/log"
	"github.com/herodotus/hdp-go/output"
	"github.com/herodotus/hdp-go/preprocessor"
	"github.com/herodotus/hdp-go/primitives"
	"github.com/herodotus/hdp-go/provider"
)

var datalakeFlags = []cli.Flag{
	&cli.StringFlag{Name: "datalake", Usage: "block-sampled or transactions-in-block", Required: true},
	&cli.Uint64Flag{Name: "block-range-start"},
	&cli.Uint64Flag{Name: "block-range-end"},
	&cli.Uint64Flag{Name: "target-block"},
	&cli.Uint64Flag{Name: "start-index"},
	&cli.Uint64Flag{Name: "end-index"},
	&cli.Uint64Flag{Name: "increment", Value: 1},
	&cli.StringFlag{Name: "included-types", Usage: "comma-separated subset of legacy,eip2930,eip1559,eip4844"},
	&cli.StringFlag{Name: "property", Usage: "header:FIELD | account:ADDRESS:FIELD | storage:ADDRESS:SLOT | transaction:FIELD | receipt:FIELD", Required: true},
	&cli.StringFlag{Name: "aggregate-fn-id", Usage: "AVG|SUM|MIN|MAX|COUNT|MERKLE|SLR", Required: true},
	&cli.StringFlag{Name: "aggregate-fn-ctx", Usage: "OP.VALUE, required by COUNT"},
}

var moduleFlags = []cli.Flag{
	&cli.StringFlag{Name: "program-hash", Usage: "0x-prefixed 32-byte program hash"},
	&cli.StringFlag{Name: "local-class-path", Usage: "path to a locally compiled module class"},
	&cli.StringFlag{Name: "module-inputs", Usage: "comma-separated 0x-prefixed U256 inputs"},
}

// startCommand covers spec §6's interactive task builder, explicitly out
// of this pipeline's core scope: it points the operator at run-datalake /
// run-module / run instead of reimplementing a prompt flow.
func startCommand() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "interactive task builder (use run-datalake, run-module, or run instead)",
		Action: func(c *cli.Context) error {
			return fmt.Errorf("hdp: start is an interactive convenience wrapper and is not implemented; use run-datalake, run-module, or run")
		},
	}
}

func runDatalakeCommand() *cli.Command {
	flags := append(append([]cli.Flag{}, ioFlags()...), datalakeFlags...)
	return &cli.Command{
		Name:  "run-datalake",
		Usage: "sample and aggregate a single datalake",
		Flags: flags,
		Action: func(c *cli.Context) error {
			datalake, err := parseDatalake(c)
			if err != nil {
				return err
			}
			computation, err := parseComputation(c)
			if err != nil {
				return err
			}
			task := primitives.DatalakeComputeTask{Datalake: datalake, Computation: computation}
			return runPipeline(c, []primitives.TaskEnvelope{task})
		},
	}
}

func runModuleCommand() *cli.Command {
	flags := append(append([]cli.Flag{}, ioFlags()...), moduleFlags...)
	return &cli.Command{
		Name:  "run-module",
		Usage: "commit to a single module task (bytecode is never executed by this pipeline)",
		Flags: flags,
		Action: func(c *cli.Context) error {
			task, err := moduleTaskFromFlags(c)
			if err != nil {
				return err
			}
			return runPipeline(c, []primitives.TaskEnvelope{task})
		},
	}
}

func runCommand() *cli.Command {
	flags := append(append([]cli.Flag{}, ioFlags()...), &cli.StringFlag{Name: "request-file", Usage: "batch-mode request JSON (spec §6)", Required: true})
	return &cli.Command{
		Name:  "run",
		Usage: "process a batch of tasks from a request file",
		Flags: flags,
		Action: func(c *cli.Context) error {
			tasks, err := loadRequestFile(c.String("request-file"))
			if err != nil {
				return err
			}
			return runPipeline(c, tasks)
		},
	}
}

func moduleTaskFromFlags(c *cli.Context) (primitives.ModuleTask, error) {
	task := primitives.ModuleTask{}
	switch {
	case c.String("program-hash") != "":
		hash, err := parseU256Hex(c.String("program-hash"))
		if err != nil {
			return task, err
		}
		task.Class = primitives.ModuleClassProgramHash
		task.ProgramHash = hash.Bytes32()
	case c.String("local-class-path") != "":
		task.Class = primitives.ModuleClassLocalPath
		task.LocalPath = c.String("local-class-path")
	default:
		return task, fmt.Errorf("hdp: run-module requires --program-hash or --local-class-path")
	}

	if raw := c.String("module-inputs"); raw != "" {
		parts := strings.Split(raw, ",")
		inputs := make([]primitives.U256, len(parts))
		for i, p := range parts {
			v, err := parseU256Hex(strings.TrimSpace(p))
			if err != nil {
				return task, fmt.Errorf("module-inputs[%d]: %w", i, err)
			}
			inputs[i] = v
		}
		task.Inputs = inputs
	}
	return task, nil
}

// runPipeline drives the shared provider -> preprocessor -> output chain
// used by every verb that actually executes a batch (spec §4.6, §4.7).
func runPipeline(c *cli.Context, tasks []primitives.TaskEnvelope) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	p, err := provider.New(ctx, primitives.ChainId(cfg.ChainID), provider.Config{
		IndexerBaseURL: cfg.IndexerBaseURL,
		RPCURL:         cfg.RPCURL,
		CacheBytes:     cfg.CacheBytes,
	})
	if err != nil {
		return fmt.Errorf("hdp: construct provider: %w", err)
	}

	run := preprocessor.NewRun()
	full, err := run.Process(ctx, p, tasks, cfg.PreprocessorOutputFile)
	if err != nil {
		return fmt.Errorf("hdp: process tasks: %w", err)
	}

	if cfg.PreprocessorOutputFile != "" {
		bundle, err := output.ToBundle(full)
		if err != nil {
			return fmt.Errorf("hdp: render bundle: %w", err)
		}
		if err := writeJSON(cfg.PreprocessorOutputFile, bundle); err != nil {
			return err
		}
		log.Info("wrote preprocessor output", "path", cfg.PreprocessorOutputFile)
	}

	if cfg.CairoPieFile != "" {
		cairoBundle, err := output.ToCairoBundle(full)
		if err != nil {
			return fmt.Errorf("hdp: render cairo bundle: %w", err)
		}
		if err := writeJSON(cfg.CairoPieFile, cairoBundle); err != nil {
			return err
		}
		log.Info("wrote cairo-format output", "path", cfg.CairoPieFile)
	}

	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("hdp: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("hdp: write %s: %w", path, err)
	}
	return nil
}
