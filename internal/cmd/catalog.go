package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/audite/formgraph/internal/catalog"
	"github.com/audite/formgraph/internal/display"
	"github.com/audite/formgraph/internal/filelock"
	"github.com/audite/formgraph/internal/graph"
	"github.com/audite/formgraph/internal/parser"
)

// NewCatalogCommand creates and returns the catalog subcommand tree
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local questionnaire catalog",
		Long: `The catalog keeps questionnaire definitions in a local SQLite
database so they can be listed, re-validated and simulated without the
original files. Answers are never stored.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newCatalogImportCommand())
	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogShowCommand())
	cmd.AddCommand(newCatalogExportCommand())
	cmd.AddCommand(newCatalogDeleteCommand())
	return cmd
}

func newCatalogExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <file>",
		Short: "Export one catalog entry as a questionnaire YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fl := filelock.New(cfg.CatalogPath + ".lock")
			acquired, err := fl.TryLock()
			if err != nil {
				return err
			}
			if !acquired {
				return fmt.Errorf("catalog is locked by another process; retry once it finishes")
			}
			defer fl.Unlock()

			store, err := catalog.NewStore(cfg.CatalogPath)
			if err != nil {
				return err
			}
			defer store.Close()

			quest, err := store.Get(args[0])
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(quest)
			if err != nil {
				return fmt.Errorf("serialize questionnaire %s: %w", args[0], err)
			}
			if err := filelock.AtomicWrite(args[1], data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", args[0], args[1])
			return nil
		},
		SilenceUsage: true,
	}
}

func newCatalogImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import questionnaire files into the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			files, err := collectQuestionnaireFiles(args)
			if err != nil {
				return err
			}

			return filelock.WithLock(cfg.CatalogPath, func() error {
				store, err := catalog.NewStore(cfg.CatalogPath)
				if err != nil {
					return err
				}
				defer store.Close()

				for _, file := range files {
					quest, err := parser.ParseFile(file)
					if err != nil {
						return fmt.Errorf("%s: %w", file, err)
					}

					result := graph.Validate(quest.Questions)
					id, err := store.Import(quest, file, result.Valid)
					if err != nil {
						return fmt.Errorf("%s: %w", file, err)
					}

					if !result.Valid {
						log.Warnf("%s imported with %d structural error(s)", file, len(result.Errors))
					}
					fmt.Fprintf(cmd.OutOrStdout(), "imported %s as %s\n", file, id)
				}
				return nil
			})
		},
		SilenceUsage: true,
	}
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := catalog.NewStore(cfg.CatalogPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog is empty")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				status := "valid"
				if !e.Valid {
					status = "INVALID"
				}
				fmt.Fprintf(out, "%s  %-40s  %3d questions (%d conditional)  %s  %s\n",
					e.ID, e.Title, e.QuestionCount, e.ConditionalCount, status,
					e.ImportedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
		SilenceUsage: true,
	}
}

func newCatalogShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show and re-validate one catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := catalog.NewStore(cfg.CatalogPath)
			if err != nil {
				return err
			}
			defer store.Close()

			quest, err := store.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d questions)\n", quest.Title, len(quest.Questions))

			g := graph.New(quest.Questions)
			levels := g.Levels()
			for i := range quest.Questions {
				q := &quest.Questions[i]
				marker := " "
				if q.IsConditional() {
					marker = "*"
				}
				fmt.Fprintf(out, "  %s %3d  level %s  %s\n", marker, q.ID, formatLevel(levels[q.ID]), q.Text)
			}

			display.ValidationReport(out, "validation", graph.Validate(quest.Questions))
			return nil
		},
		SilenceUsage: true,
	}
}

func newCatalogDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return filelock.WithLock(cfg.CatalogPath, func() error {
				store, err := catalog.NewStore(cfg.CatalogPath)
				if err != nil {
					return err
				}
				defer store.Close()

				if err := store.Delete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
		SilenceUsage: true,
	}
}
