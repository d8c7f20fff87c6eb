// Package phrases loads the phrase lists backing the analyzer's phrase rules
// from files and keeps them fresh, reloading on file change.
package phrases

import (
	"context"
	"fmt"
	"io"
	"log"
)

// Loader reads phrase list files into the analyzer. Files are optional,
// the analyzer falls back to its compiled-in lists for unset paths.
type Loader struct {
	Analyzer
	params Config
}

// Config is a set of parameters for Loader.
type Config struct {
	GenericPhrasesFile string // generic praise phrases for the review rules
	SpamPhrasesFile    string // spam keywords for the question rules
	Watch              bool   // reload phrase files on change
}

// Analyzer is the phrase-loading interface of the moderation analyzer.
type Analyzer interface {
	LoadGenericPhrases(readers ...io.Reader) (int, error)
	LoadSpamPhrases(readers ...io.Reader) (int, error)
}

// NewLoader creates a phrase loader and starts file watchers if requested.
func NewLoader(ctx context.Context, analyzer Analyzer, params Config) *Loader {
	res := &Loader{Analyzer: analyzer, params: params}
	if params.Watch {
		if params.GenericPhrasesFile != "" {
			go func() {
				if err := watch(ctx, params.GenericPhrasesFile, res.reloadGeneric); err != nil {
					log.Printf("[WARN] generic phrases watcher failed: %v", err)
				}
			}()
		}
		if params.SpamPhrasesFile != "" {
			go func() {
				if err := watch(ctx, params.SpamPhrasesFile, res.reloadSpam); err != nil {
					log.Printf("[WARN] spam phrases watcher failed: %v", err)
				}
			}()
		}
	}
	return res
}

// Reload reads all configured phrase files into the analyzer.
func (l *Loader) Reload() error {
	if l.params.GenericPhrasesFile != "" {
		data, err := readFile(l.params.GenericPhrasesFile)
		if err != nil {
			return fmt.Errorf("failed to read generic phrases: %w", err)
		}
		if err := l.reloadGeneric(data); err != nil {
			return err
		}
	}
	if l.params.SpamPhrasesFile != "" {
		data, err := readFile(l.params.SpamPhrasesFile)
		if err != nil {
			return fmt.Errorf("failed to read spam phrases: %w", err)
		}
		if err := l.reloadSpam(data); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) reloadGeneric(r io.Reader) error {
	count, err := l.LoadGenericPhrases(r)
	if err != nil {
		return fmt.Errorf("failed to load generic phrases: %w", err)
	}
	log.Printf("[INFO] loaded %d generic phrases from %s", count, l.params.GenericPhrasesFile)
	return nil
}

func (l *Loader) reloadSpam(r io.Reader) error {
	count, err := l.LoadSpamPhrases(r)
	if err != nil {
		return fmt.Errorf("failed to load spam phrases: %w", err)
	}
	log.Printf("[INFO] loaded %d spam phrases from %s", count, l.params.SpamPhrasesFile)
	return nil
}
