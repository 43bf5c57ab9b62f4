package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MisterVladimir/download-zillow-listings/pkg/infrastructure/metrics"
	"github.com/MisterVladimir/download-zillow-listings/pkg/interface/cli"
	"github.com/MisterVladimir/download-zillow-listings/pkg/interface/presenter"
)

func main() {
	// Parse command line flags
	config, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Create assembler
	assembler := cli.NewAssembler(config)

	// Assemble use case with all dependencies
	useCase, err := assembler.AssembleUseCase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Setup Prometheus exporter if enabled
	if config.MetricsAddr != "" {
		exporter := metrics.NewExporter()
		useCase.RegisterMetricsObserver(exporter)
		go func() {
			if err := exporter.Serve(config.MetricsAddr); err != nil {
				fmt.Fprintf(os.Stderr, "Metrics exporter error: %v\n", err)
			}
		}()
	}

	// Downloads run strictly one at a time with no mid-batch cancellation
	// hook; an interrupt terminates the whole process.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, exiting...")
		os.Exit(130)
	}()

	// Setup dashboard if enabled
	if config.ShowDashboard {
		dashboard := presenter.NewDashboard()
		useCase.RegisterMetricsObserver(dashboard)

		p := tea.NewProgram(dashboard, tea.WithAltScreen())

		// Run use case in background
		var runErr error
		go func() {
			runErr = useCase.Execute()
			p.Quit()
		}()

		// Start TUI
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Download error: %v\n", runErr)
			os.Exit(1)
		}
	} else {
		// Non-dashboard mode: progress bar on stderr
		progress := presenter.NewProgress()
		useCase.RegisterMetricsObserver(progress)

		runErr := useCase.Execute()
		progress.Wait()
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Download error: %v\n", runErr)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Batch completed")
	}
}
