//go:build mage

// Package main contains Mage build targets for scholar-select developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/samber/lo"

	"github.com/pdiddy/scholar-select/internal/dataset"
	"github.com/pdiddy/scholar-select/pkg/types"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"data",
	"history",
	"output",
	".secrets",
}

const (
	binDir  = "bin"
	binName = "scholar-select"
	cmdPkg  = "./cmd/scholar-select"

	// buildTags enables FTS5 in mattn/go-sqlite3 for history search.
	buildTags = "sqlite_fts5"

	defaultDump   = "data/papers.csv"
	defaultOutput = "output/selected.csv"
)

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-tags", buildTags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with FTS5 enabled.
func Test() error {
	return sh.RunV("go", "test", "-tags", buildTags, "./...")
}

// Harvest appends a researcher's works to data/papers.csv.
func Harvest(researcher string) error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "harvest",
		"--researcher", researcher, "--output", defaultDump)
}

// Select ranks every researcher in data/papers.csv and writes output/selected.csv.
func Select() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "select",
		"--input", defaultDump, "--output", defaultOutput)
}

// Stats summarizes data/papers.csv: rows, researchers, year span, and how
// many rows carry an abstract.
func Stats() error {
	papers, err := dataset.LoadCSVFile(defaultDump)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		fmt.Printf("%s is empty\n", defaultDump)
		return nil
	}

	minYear, maxYear := papers[0].Year, papers[0].Year
	for _, p := range papers {
		minYear = min(minYear, p.Year)
		maxYear = max(maxYear, p.Year)
	}
	withAbstract := lo.CountBy(papers, func(p types.Paper) bool {
		return strings.TrimSpace(p.Abstract) != ""
	})

	fmt.Printf("Papers:          %d\n", len(papers))
	fmt.Printf("Researchers:     %d\n", len(dataset.Researchers(papers)))
	fmt.Printf("Years:           %d-%d\n", minYear, maxYear)
	fmt.Printf("With abstract:   %d\n", withAbstract)
	return nil
}
