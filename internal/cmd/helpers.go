package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/audite/formgraph/internal/config"
	"github.com/audite/formgraph/internal/logger"
	"github.com/audite/formgraph/internal/models"
)

// loadConfig resolves the config file from the persistent --config flag
// and applies the --log-level override if given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

// newLogger builds the stderr logger for a command invocation.
func newLogger(cfg *config.Config) *logger.ConsoleLogger {
	return logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
}

// collectQuestionnaireFiles expands the given paths into questionnaire
// files. Directories are filtered to questions-*.{yaml,yml,md,markdown};
// explicit file arguments are taken as-is.
func collectQuestionnaireFiles(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path: %w", err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasPrefix(name, "questions-") {
				continue
			}
			switch strings.ToLower(filepath.Ext(name)) {
			case ".yaml", ".yml", ".md", ".markdown":
				files = append(files, filepath.Join(path, name))
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no questionnaire files found (expected questions-*.yaml or questions-*.md)")
	}
	sort.Strings(files)
	return files, nil
}

// parseAnswerFlags turns repeated "id=value" flags into an answer map.
// Multi-choice values separate options with '|': "3=Electricity|Gas".
func parseAnswerFlags(raw []string) (models.AnswerMap, error) {
	answers := make(models.AnswerMap, len(raw))

	for _, entry := range raw {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("invalid answer %q: expected id=value", entry)
		}
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("invalid answer %q: question id must be an integer", entry)
		}

		if strings.Contains(value, "|") {
			var items []string
			for _, item := range strings.Split(value, "|") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			answers[id] = models.List(items...)
			continue
		}
		answers[id] = models.Scalar(strings.TrimSpace(value))
	}

	return answers, nil
}
