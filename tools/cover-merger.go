//go:build tools

// Merges the per-package .cover profiles produced by the test targets into
// a single coverage.out for the report.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const outFilename = "coverage.out"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	files, err := filepath.Glob("*.cover")
	if err != nil {
		return fmt.Errorf("failed to find .cover files: %v", err)
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "warning: no .cover files found")
		return nil
	}

	_ = os.Remove(outFilename)

	outFile, err := os.Create(outFilename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", outFilename, err)
	}
	defer outFile.Close()

	w := bufio.NewWriter(outFile)
	fmt.Fprintln(w, "mode: set")

	for _, file := range files {
		if err := appendProfile(w, file); err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", file, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %v", outFilename, err)
	}

	return nil
}

// appendProfile copies a profile's coverage lines, dropping its mode header.
func appendProfile(w *bufio.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for i, line := range strings.Split(string(content), "\n") {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		fmt.Fprintln(w, line)
	}

	return nil
}
