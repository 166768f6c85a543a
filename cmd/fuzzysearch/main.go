// Copyright 2026 The FuzzySearch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the fuzzy place-name lookup server and CLI.

FuzzySearch answers typo-tolerant name lookups against a fixed gazetteer
snapshot: a JSON record store plus a trigram inverted index generated from the
same data. Candidates are retrieved by trigram overlap, scored by normalized
edit distance with a prefix bonus on the primary name, then ranked and
truncated. It can operate as a MessagePack IPC server for integration with
editors and UIs, or as a CLI application for testing and debugging.

# Usage

Start the server with default settings:

	fuzzysearch -data /path/to/snapshot

Enable debug logging:

	fuzzysearch -data /path/to/snapshot -d

Run in CLI mode for interactive testing:

	fuzzysearch -data /path/to/snapshot -c -limit 10

Prefix completion instead of fuzzy matching in CLI mode:

	fuzzysearch -data /path/to/snapshot -c -complete

The data directory holds records.json and trigram_index.json. When the index
file is missing it is built at startup from the records with the exact rules
used on queries, which keeps the two sides of the index consistent. A whole
snapshot can also be carried as a single packed file:

	fuzzysearch -pack snapshot.pack -data /path/to/snapshot
	fuzzysearch -load snapshot.pack

# Configuration

Runtime configuration is managed through a TOML file covering the engine
tunables, server limits and CLI defaults:

	[search]
	candidate_cap = 500
	score_threshold = 0.65
	max_results = 20
	prefix_bonus = 0.09
	min_query_len = 2

	[server]
	max_limit = 64
	max_query_len = 120
	link_template = "https://example.org/experience/#oid={oid}"

The config file is automatically created with defaults if it doesn't exist.
Raising score_threshold trades recall for precision; raising candidate_cap
trades latency for recall on low-overlap matches.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Requests carry an
id that is echoed back, so callers driving the server from rapid successive
inputs can discard responses to superseded queries:

	{"id": "req1", "q": "asmera", "l": 10}

Responses carry ranked matches with score, match source and the templated
outbound link:

	{"id": "req1", "r": [{"oid": 17, "n": "Asmara", "sc": 0.83, "src": "name", "m": "Asmara"}], "c": 1, "t": 412}

See the server package for the complete set of commands (search, complete,
info, reload, ping).
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Geodocque/fuzzy-search/internal/cli"
	"github.com/Geodocque/fuzzy-search/pkg/config"
	"github.com/Geodocque/fuzzy-search/pkg/gazetteer"
	"github.com/Geodocque/fuzzy-search/pkg/search"
	"github.com/Geodocque/fuzzy-search/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "fuzzysearch"
	gh      = "https://github.com/Geodocque/fuzzy-search"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "data/", "Directory containing records.json and trigram_index.json")
	packedPath := flag.String("load", "", "Load a packed snapshot file instead of a data directory")
	packTo := flag.String("pack", "", "Write the loaded snapshot to a packed file and exit")
	configPath := flag.String("config", "", "Path to config.toml (default: user config dir)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	completeMode := flag.Bool("complete", false, "CLI prefix completion instead of fuzzy matching")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of matches to show in CLI mode")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	activeConfigPath := *configPath
	if activeConfigPath == "" {
		var err error
		activeConfigPath, err = config.GetDefaultConfigPath()
		if err != nil {
			log.Warnf("Failed to determine config path: %v. Using built-in defaults...", err)
		}
	}

	appConfig := config.DefaultConfig()
	if activeConfigPath != "" {
		var err error
		appConfig, err = config.InitConfig(activeConfigPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
			os.Exit(1)
		}
		log.Debugf("Using config file: (%s)", activeConfigPath)
	}

	ds := loadSnapshot(*packedPath, *dataDir)

	if *packTo != "" {
		if err := gazetteer.WritePacked(ds, *packTo); err != nil {
			log.Fatalf("Failed to write packed snapshot: %v", err)
			os.Exit(1)
		}
		log.SetLevel(log.InfoLevel)
		log.Infof("Packed snapshot written to %s", *packTo)
		return
	}

	engine := search.NewEngine(ds, appConfig.Options())
	names := search.NewNameIndex(ds.Records)

	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "limit", *limit, "complete", *completeMode)

		linkTemplate := ""
		if appConfig.CLI.ShowLinks {
			linkTemplate = appConfig.Server.LinkTemplate
		}
		inputHandler := cli.NewInputHandler(engine, names, *limit, linkTemplate, *completeMode)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, names, appConfig, *dataDir, os.Stdin, os.Stdout)

	showStartupInfo(*dataDir, ds.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// loadSnapshot reads a packed snapshot when -load is given, otherwise the
// JSON pair from the data directory, building the trigram index if the
// snapshot lacks one.
func loadSnapshot(packedPath, dataDir string) *gazetteer.Dataset {
	var ds *gazetteer.Dataset
	var err error

	if packedPath != "" {
		ds, err = gazetteer.LoadPacked(packedPath)
	} else {
		ds, err = gazetteer.Load(dataDir)
	}
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
		os.Exit(1)
	}

	if ds.Index == nil {
		log.Debug("No trigram index in snapshot, building one")
		ds.Index = search.BuildIndex(ds.Records)
	}
	return ds
}

// printVersion shows a styled version banner on stderr.
func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ FuzzySearch ] Typo-tolerant place-name lookups!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir string, records int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("data dir: ( %s )", dataDir)
	log.Infof("records: %d", records)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
