package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/readtext/crawl"
)

// Output formats.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Batch  *crawl.Batch
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URLs                  []string      `arg:"" optional:"" name:"url" help:"Article URLs to read"`
	AllPages              bool          `short:"a" help:"Follow next-page links and append their text"`
	RespectServerEncoding bool          `help:"Trust the charset named by the server"`
	MaxPages              int           `default:"50" help:"Maximum pages read per article"`
	Dir                   string        `short:"d" type:"existingdir" xor:"source" help:"Read pages from files under DIR"`
	Render                bool          `xor:"source" help:"Render pages with headless Chrome"`
	Format                string        `short:"f" enum:"text,markdown,json" default:"text" help:"Output format (text, markdown, json)"`
	DB                    string        `name:"db" env:"READTEXT_DB" help:"Persist results in a SQLite database"`
	Out                   string        `short:"o" help:"Write one text file per article under DIR"`
	Concurrency           int           `short:"c" default:"3" help:"Articles read at once"`
	Timeout               time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Verbose               bool          `short:"v" help:"Log debug output to stderr"`
}

// ReadCmd reads a batch of articles.
type ReadCmd struct {
	URLs []string
}
