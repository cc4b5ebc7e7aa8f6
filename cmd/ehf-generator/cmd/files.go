package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/processor"
)

// collectFiles expands globs and walks directories, keeping files with
// one of exts
func collectFiles(args []string, exts ...string) ([]string, error) {
	var files []string

	supported := func(path string) bool {
		return lo.Contains(exts, strings.ToLower(filepath.Ext(path)))
	}

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}

			if info.IsDir() {
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && supported(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if info.IsDir() {
				sub, err := collectFiles([]string{match}, exts...)
				if err != nil {
					return nil, err
				}
				files = append(files, sub...)
			} else if supported(match) {
				files = append(files, match)
			}
		}
	}

	return lo.Uniq(files), nil
}

// readRecords loads every invoice record in a JSON file
func readRecords(path string) ([]model.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return processor.DecodeInputs(data)
}
