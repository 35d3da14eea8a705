// Command console runs the churn dialogue in a terminal, one line per message.
package main

import (
	"bufio"
	"churn-bot/domain"
	"churn-bot/internal"
	"churn-bot/observability"
	"churn-bot/runtime"
	"churn-bot/runtime/workers"
	"churn-bot/services"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	idleTimeout     = time.Hour
	restartInterval = 200 * time.Millisecond
	statsInterval   = 10 * time.Minute
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	_ = godotenv.Load()
	config, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	pipeline, err := internal.LoadPipeline(log, config.ModelPath, config.ScalerPath, config.Language, config.StrictChoices)
	if err != nil {
		return err
	}

	// No history here: predictions made from a terminal are not audited
	stats := observability.NewSessionStats()
	churnService := services.NewChurnService(log, pipeline.Assembler, pipeline.Predictor, nil)
	dialogue := services.NewDialogueService(log, pipeline.Schema, churnService, pipeline.Catalog, stats)
	orchestrator := runtime.NewOrchestrator(log, workers.NewSupervisor(log, restartInterval), runtime.NewRegistry(),
		dialogue, stats, 1, idleTimeout, statsInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := orchestrator.Start(ctx); err != nil {
		return err
	}
	defer orchestrator.Stop()

	printer := newPrinter(out, config.Colours)
	reply, err := orchestrator.Dispatch(ctx, config.User, "/start")
	if err != nil {
		return err
	}
	printer.print(reply)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		text := resolveChoice(scanner.Text(), reply.Choices)
		reply, err = orchestrator.Dispatch(ctx, config.User, text)
		if err != nil {
			return err
		}
		printer.print(reply)
	}
	return scanner.Err()
}

// resolveChoice lets the user type the number of a suggested choice.
func resolveChoice(input string, choices []string) string {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(choices) {
		return input
	}
	return choices[n-1]
}

type printer struct {
	out     io.Writer
	colours bool
}

func newPrinter(out io.Writer, colours bool) printer {
	return printer{out: out, colours: colours}
}

func (p printer) print(reply domain.Reply) {
	fmt.Fprintln(p.out, p.paint(reply.Signal, reply.Text))
	for i, choice := range reply.Choices {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, choice)
	}
}

func (p printer) paint(signal domain.Signal, text string) string {
	if !p.colours {
		return text
	}
	switch signal {
	case domain.SignalCompleted:
		return color.New(color.FgGreen, color.OpBold).Render(text)
	case domain.SignalFailed:
		return color.New(color.FgRed).Render(text)
	case domain.SignalCancelled, domain.SignalIdle:
		return color.New(color.FgYellow).Render(text)
	default:
		return color.New(color.FgCyan).Render(text)
	}
}
