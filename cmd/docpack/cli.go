package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/jmendel/docpack"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Client  docpack.Client
	Docsets docpack.DocsetIndex
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Build  BuildCmd  `cmd:"" help:"Build archives for DevDocs documentation sets"`
	List   ListCmd   `cmd:"" help:"List the documentation sets DevDocs publishes"`
	Search SearchCmd `cmd:"" help:"Search the entries of locally built archives"`
	Serve  ServeCmd  `cmd:"" help:"Serve built archives for browsing"`

	Index        string  `default:"${index}" help:"Path of the local search index database"`
	FrontendURL  string  `default:"${frontend_url}" help:"Scheme and hostname of the DevDocs frontend"`
	DocumentsURL string  `default:"${documents_url}" help:"Scheme and hostname of the DevDocs documents server"`
	RateLimit    float64 `default:"${rate_limit}" help:"Maximum DevDocs requests per second, 0 for unlimited"`
	Debug        bool    `help:"Enable verbose output"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	All           bool     `help:"Build every published docset"`
	Slug          []string `help:"Build specific docsets (repeatable, comma separated)"`
	First         int      `help:"Build the first N docsets of each name, newest versions first"`
	SkipSlugRegex string   `help:"Skip docsets whose slug matches the expression"`

	Output      string `short:"o" default:"${output}" help:"Output folder for archives"`
	Concurrency int    `short:"c" default:"1" help:"Number of docsets built in parallel"`
	NoIndex     bool   `help:"Skip recording built archives in the search index"`
	NoProgress  bool   `help:"Report progress as plain lines instead of a bar"`

	Creator               string `default:"DevDocs" help:"Name of the content creator"`
	Publisher             string `default:"docpack" help:"Name of the archive publisher"`
	NameFormat            string `default:"devdocs_{slug_without_version}_{version}" help:"Archive file name, without extension"`
	TitleFormat           string `default:"{full_name} Docs" help:"Archive title"`
	DescriptionFormat     string `default:"{full_name} docs by DevDocs" help:"Archive description"`
	LongDescriptionFormat string `help:"Archive long description"`
	Tags                  string `default:"devdocs;{slug_without_version}" help:"Semicolon delimited archive tags"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	First int `help:"Show only the first N docsets of each name"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query  string `arg:"" help:"Substring to match against entry names"`
	Docset string `help:"Limit matches to one docset slug"`
	Limit  int    `default:"20" help:"Maximum number of matches to print"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string `default:"${addr}" help:"Address to listen on"`
	Library string `default:"${library}" help:"Folder containing built archives"`
}
