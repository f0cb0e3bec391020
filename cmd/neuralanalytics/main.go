// Neural Analytics Core — a brain-computer interface pipeline that
// reads four-channel EEG from a consumer headband, classifies it into
// an imagined color intent, and drives a smart bulb accordingly.
//
// Usage:
//
//	neuralanalytics [-verbose] [-quiet] [-tick-interval=50ms]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/neirth/neuralanalytics-go/internal/bulb"
	"github.com/neirth/neuralanalytics-go/internal/core"
	"github.com/neirth/neuralanalytics-go/internal/events"
	"github.com/neirth/neuralanalytics-go/internal/inference"
	"github.com/neirth/neuralanalytics-go/internal/logger"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".neural-analytics-logs/core.log", "file to write logs to (use \"stderr\" to log to console)")
	tickInterval := flag.Duration("tick-interval", 50*time.Millisecond, "background ticking cadence")
	modelPath := flag.String("model", inference.DefaultModelPath, "path to the ONNX classifier asset")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	log := logger.New(logLevel, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the three collaborators once (I5), the way ottocook builds
	// its own singleton-ish dependencies in main() before wiring them
	// through the rest of the app.
	eegSource := sharedctx.SelectEEGSource(log)
	bulbSink := bulb.NewDriver(log)
	bulbSink.Start(ctx)
	engine := inference.New(log, inference.WithModelPath(*modelPath))

	rt, err := core.New(log, eegSource, bulbSink, engine, events.StdoutSink(func(format string, a ...any) {
		fmt.Printf(format+"\n", a...)
	}), core.WithTickInterval(*tickInterval))
	if err != nil {
		log.Error("core: failed to initialize: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if !engine.IsModelLoaded() {
		log.Warn("inference: no model loaded at %s; predictions will fail until one is available", *modelPath)
	}

	rt.Start(ctx)
	fmt.Println("neural-analytics-core running. Press Ctrl+C to stop.")

	<-ctx.Done()
	rt.Stop()
	fmt.Println("neural-analytics-core stopped.")
}
