package main

import (
	"context"
	"fmt"
	"lifegrid/src/universe"
	"lifegrid/src/view"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"golang.org/x/sync/errgroup"
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	seed        int64
	template    string
}

func main() {
	eo, uo := initOptions()

	//the universe doesn't depend on the terminal, so it's created first
	u, err := universe.NewBaseUniverse(uo)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	if eo.randomData {
		u.SettleWithRandomData(eo.seed)
	} else if eo.template != "" {
		if err := u.SettleTemplate(eo.template); err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if eo.interactive {
		err = runInteractive(ctx, u)
	} else {
		err = runHeadless(ctx, u)
	}
	if err != nil {
		log.Fatalln(err)
	}
}

//runInteractive runs the tick loop and the terminal UI side by side until the user quits
func runInteractive(ctx context.Context, u universe.Universe) error {
	v, err := view.NewViewTerminal()
	if err != nil {
		return err
	}
	u.RegisterViewer(v)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return u.Run(ctx)
	})
	g.Go(func() error {
		//quitting the UI stops the tick loop
		defer cancel()
		return v.Start(ctx)
	})
	return g.Wait()
}

//runHeadless runs the simulation without UI until it's finished
func runHeadless(ctx context.Context, u universe.Universe) error {
	out := view.NewConsoleOut(os.Stdout, u.Options().MaxSteps)
	u.RegisterViewer(out)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return u.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		select {
		case <-out.Done():
		case <-ctx.Done():
		}
		return nil
	})
	out.Start()
	u.RequestToggleRun()
	return g.Wait()
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	o := universe.DefaultUniverseOptions
	uo = &o
	eo = &EnvOptions{seed: time.Now().UnixNano()}

	flaggy.SetName("lifegrid")
	flaggy.SetDescription("Conway's Game of Life with a terminal grid editor")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&uo.Size, "x", "size", "Size of the square simulation field")
	flaggy.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the generations) in format the number with 'ms' suffix, for example 300ms")
	flaggy.Duration(&uo.FrameInterval, "f", "frame", "Interval between the field redraws in the interactive mode")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the headless simulation to maxSteps generations")
	flaggy.String(&uo.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.EngineNames(), "|")+"]")
	flaggy.Int(&uo.Workers, "w", "workers", "Workers of the multithreaded engine")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.Int64(&eo.seed, "", "seed", "Seed of the random data")
	flaggy.String(&eo.template, "t", "template", "Settle with the template ["+strings.Join(universe.BuiltinTemplateNames(), "|")+"]")

	flaggy.Parse()

	if uo.Size < 1 {
		flaggy.ShowHelpAndExit(fmt.Sprintf("bad size %v", uo.Size))
	}
	//the headless mode has nobody to draw the cells
	if !eo.interactive && !eo.randomData && eo.template == "" {
		eo.template = "sample"
	}

	return
}
