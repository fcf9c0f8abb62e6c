package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/fsnotify"
	"github.com/fwojciec/tenk/gin"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Config     tenk.Config
	Credential tenk.Credential

	Queries tenk.QueryService
	Indexes tenk.IndexSetBuilder
	Graphs  tenk.GraphService
	Server  *gin.Server

	// Watcher is set when filings are watched for changes.
	Watcher *fsnotify.Watcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    string `short:"c" default:"tenk.yaml" help:"Config file (optional)"`
	DataDir   string `short:"d" name:"data-dir" help:"Data directory holding {ticker}/{ticker}_{year}.html"`
	APIKey    string `name:"api-key" env:"TENK_API_KEY" help:"API key for the language model provider"`
	Provider  string `help:"Language model provider (openai, gemini)"`
	Engine    string `help:"Index engine (vector, lexical)"`
	Store     string `help:"Index persistence (none, fs, sqlite)"`
	GraphRoot string `name:"graph-root" help:"Composable graph root (list, dict)"`
	Verbose   bool   `short:"v" help:"Log debug messages"`

	Serve  ServeCmd  `cmd:"" help:"Serve the web shell"`
	Query  QueryCmd  `cmd:"" help:"Query one fiscal year"`
	Global GlobalCmd `cmd:"" help:"Query every fiscal year independently"`
	Graph  GraphCmd  `cmd:"" help:"Answer a question across all fiscal years"`
	Build  BuildCmd  `cmd:"" help:"Build and persist the indexes and the graph"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr  string `short:"a" help:"Listen address"`
	Watch bool   `short:"w" help:"Rebuild indexes when filings change"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Year   int    `arg:"" help:"Fiscal year"`
	Query  string `arg:"" optional:"" help:"Question (defaults to the query type)"`
	Type   string `short:"t" default:"Risk Factors" help:"Query type used when no question is given"`
	TopK   int    `short:"k" name:"top-k" help:"Number of fragments"`
	Answer bool   `help:"Synthesize an answer from the fragments"`
}

// GlobalCmd is the "global" subcommand.
type GlobalCmd struct {
	Query string `arg:"" optional:"" help:"Question (defaults to the query type)"`
	Type  string `short:"t" default:"Risk Factors" help:"Query type used when no question is given"`
	TopK  int    `short:"k" name:"top-k" help:"Number of fragments per year"`
}

// GraphCmd is the "graph" subcommand.
type GraphCmd struct {
	Query string `arg:"" optional:"" help:"Question (defaults to the risk factor summary)"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	SkipGraph bool `name:"skip-graph" help:"Only build the per-year indexes"`
}
