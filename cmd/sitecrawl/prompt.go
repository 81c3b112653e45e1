package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/model"
)

// errPromptClosed is returned when the input ends before a valid answer was given.
var errPromptClosed = errors.New("input closed before the crawl settings were entered")

// prompter asks for the crawl settings when they were not given as arguments.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// newPrompter creates a prompter reading answers from in and writing questions to out.
func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// ask prints question and returns the trimmed answer.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", errPromptClosed
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// askSeedURL asks for the seed URL until a non-empty answer is given.
// The answer is completed with a scheme and a trailing slash.
func (p *prompter) askSeedURL() (string, error) {
	for {
		answer, err := p.ask("1) Enter the base URL (e.g. https://www.example.com/): ")
		if err != nil {
			return "", err
		}
		if seed := config.PrepareSeedURL(answer); seed != "" {
			return seed, nil
		}
	}
}

// askFormat asks for the output format until "html" or "json" is given.
func (p *prompter) askFormat() (model.OutputFormat, error) {
	for {
		answer, err := p.ask(`2) Choose the output format ("html" or "json"): `)
		if err != nil {
			return "", err
		}
		switch model.OutputFormat(strings.ToLower(answer)) {
		case model.FormatRaw:
			return model.FormatRaw, nil
		case model.FormatStructured:
			return model.FormatStructured, nil
		}
	}
}

// run asks every question that has no answer yet.
// askForFormat is false when the format was set with a flag.
func (p *prompter) run(cfg *config.Config, askForFormat bool) error {
	fmt.Fprintln(p.out, "\n=== SITECRAWL ===")
	fmt.Fprintln(p.out)

	seed, err := p.askSeedURL()
	if err != nil {
		return err
	}
	cfg.SeedURL = seed

	if !askForFormat {
		return nil
	}
	format, err := p.askFormat()
	if err != nil {
		return err
	}
	cfg.OutputFormat = format
	return nil
}
