package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/bootstrap"
	readerdto "folio/internal/modules/reader/dto"
	"folio/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var libraryPath string

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Terminal PDF library and reader",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&libraryPath, "library", ".", "library directory")

	root.AddCommand(newTUICmd(&libraryPath))
	root.AddCommand(newImportCmd(&libraryPath))
	root.AddCommand(newListCmd(&libraryPath))
	root.AddCommand(newShowCmd(&libraryPath))
	root.AddCommand(newRemoveCmd(&libraryPath))
	root.AddCommand(newTagCmd(&libraryPath))
	root.AddCommand(newRenderCmd(&libraryPath))
	root.AddCommand(newBookmarkCmd(&libraryPath))
	root.AddCommand(newNotesCmd(&libraryPath))
	root.AddCommand(newWatchCmd(&libraryPath))
	root.AddCommand(newStreakCmd(&libraryPath))
	return root
}

func loadApp(libraryPath string, logOutput io.Writer) (*bootstrap.App, error) {
	cfg, err := config.New(libraryPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logOutput)
}

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(libraryPath string, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(libraryPath, nil)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(libraryPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the folio terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			// The alternate screen owns stderr; logs go to a file instead.
			logPath := filepath.Join(*libraryPath, ".folio", "folio.log")
			if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
				return fmt.Errorf("prepare log dir: %w", err)
			}
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			app, err := loadApp(*libraryPath, logFile)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newImportCmd(libraryPath *string) *cobra.Command {
	var name string
	var tags []string

	cmd := &cobra.Command{
		Use:   "import <file.pdf>",
		Short: "Import a PDF into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				out, err := app.DocumentCLI.ImportFile(context.Background(), args[0], name, tags)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s) pages=%d chapters=%d\n",
					out.DisplayName, out.ID, out.PageCount, len(out.Chapters))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the file name)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags")
	return cmd
}

func newListCmd(libraryPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries, most recently opened first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				entries, err := app.LibraryCLI.List(context.Background())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					type row struct {
						ID           string    `json:"id"`
						Name         string    `json:"name"`
						Page         int       `json:"page"`
						Pages        int       `json:"pages"`
						Seconds      int64     `json:"seconds"`
						Tags         []string  `json:"tags"`
						LastOpenedAt time.Time `json:"last_opened_at"`
					}
					rows := make([]row, 0, len(entries))
					for _, e := range entries {
						rows = append(rows, row{e.ID, e.DisplayName, e.LastPageRead, e.PageCount, e.TotalTimeSeconds, e.Tags, e.LastOpenedAt})
					}
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(rows)
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(out, "no entries")
					return nil
				}
				for _, e := range entries {
					_, _ = fmt.Fprintf(out, "%s\t%s\tp.%d/%d\t%.0f%%\t%s\n",
						e.ID, e.DisplayName, e.LastPageRead, e.PageCount, e.Progress()*100,
						time.Duration(e.TotalTimeSeconds)*time.Second)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newShowCmd(libraryPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an entry and its chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				e, err := app.LibraryCLI.Get(context.Background(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "id: %s\nname: %s\npage: %d/%d\nread: %s\ntags: %v\nthumbnail: %t\n",
					e.ID, e.DisplayName, e.LastPageRead, e.PageCount,
					time.Duration(e.TotalTimeSeconds)*time.Second, e.Tags, len(e.CoverThumbnail) > 0)
				for i, c := range e.Chapters {
					_, _ = fmt.Fprintf(out, "%3d  %s (p.%d)\n", i+1, c.Title, c.Page)
				}
				return nil
			})
		},
	}
}

func newRemoveCmd(libraryPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an entry, its bytes and its annotations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				if err := app.RemoveEntry(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newTagCmd(libraryPath *string) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "tag <id>",
		Short: "Replace the tags of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				e, err := app.LibraryCLI.Tag(context.Background(), args[0], tags)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s tags=%v\n", e.ID, e.Tags)
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags")
	return cmd
}

func newRenderCmd(libraryPath *string) *cobra.Command {
	var (
		page        int
		zoom        float64
		theme       string
		twoPage     bool
		margins     int
		lineSpacing float64
		font        string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render a page as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := []readerdto.Change{readerdto.Theme(theme), readerdto.Margins(margins), readerdto.FontFamily(font)}
			if zoom > 0 {
				changes = append(changes, readerdto.Zoom(zoom))
			}
			if lineSpacing > 0 {
				changes = append(changes, readerdto.LineSpacing(lineSpacing))
			}
			if twoPage {
				changes = append(changes, readerdto.Layout("two-page"))
			}
			if outPath == "" {
				outPath = args[0] + "-p" + strconv.Itoa(page) + ".png"
			}
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				session, err := app.ReaderCLI.RenderPNG(context.Background(), args[0], page, f, changes...)
				if closeErr := f.Close(); err == nil {
					err = closeErr
				}
				if err != nil {
					_ = os.Remove(outPath)
					return err
				}
				shown := strconv.Itoa(session.CurrentPage)
				if session.SecondPage > 0 {
					shown += "-" + strconv.Itoa(session.SecondPage)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rendered page %s of %d to %s\n", shown, session.PageCount, outPath)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().Float64Var(&zoom, "zoom", 0, "zoom factor (default from config)")
	cmd.Flags().StringVar(&theme, "theme", "light", "light|dark|sepia")
	cmd.Flags().BoolVar(&twoPage, "two-page", false, "render two pages side by side")
	cmd.Flags().IntVar(&margins, "margins", 0, "margin in pixels")
	cmd.Flags().Float64Var(&lineSpacing, "line-spacing", 0, "line spacing factor")
	cmd.Flags().StringVar(&font, "font", "basic", "basic|mono|bold")
	cmd.Flags().StringVar(&outPath, "out", "", "output file")
	return cmd
}

func newBookmarkCmd(libraryPath *string) *cobra.Command {
	bookmark := &cobra.Command{
		Use:   "bookmark <id> <page>",
		Short: "Toggle a bookmark on a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("page must be a number: %w", err)
			}
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				out, err := app.AnnotationCLI.ToggleBookmark(context.Background(), args[0], page)
				if err != nil {
					return err
				}
				state := "removed"
				if out.Bookmarked {
					state = "added"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bookmark %s on page %d\n", state, page)
				return nil
			})
		},
	}

	bookmark.AddCommand(&cobra.Command{
		Use:   "list <id>",
		Short: "List bookmarks of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				marks, err := app.AnnotationCLI.Bookmarks(context.Background(), args[0])
				if err != nil {
					return err
				}
				if len(marks) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no bookmarks")
					return nil
				}
				for _, b := range marks {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "p.%d\t%s\n", b.Page, b.CreatedAt.Local().Format(time.DateTime))
				}
				return nil
			})
		},
	})
	return bookmark
}

func newNotesCmd(libraryPath *string) *cobra.Command {
	notes := &cobra.Command{Use: "notes", Short: "Page notes"}

	var color string
	add := &cobra.Command{
		Use:   "add <id> <page> <text>",
		Short: "Add a note to a page",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("page must be a number: %w", err)
			}
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				note, err := app.AnnotationCLI.AddNote(context.Background(), args[0], page, color, args[2])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "note %s (%s) on page %d\n", note.ID, note.Color, note.Page)
				return nil
			})
		},
	}
	add.Flags().StringVar(&color, "color", "yellow", "yellow|green|blue|pink|purple")

	list := &cobra.Command{
		Use:   "list <id>",
		Short: "List notes of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				items, err := app.AnnotationCLI.Notes(context.Background(), args[0])
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notes")
					return nil
				}
				for _, n := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tp.%d\t%s\t%s\n", n.ID, n.Page, n.Color, n.Text)
				}
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				if err := app.AnnotationCLI.DeleteNote(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}

	var outPath string
	var stdout bool
	export := &cobra.Command{
		Use:   "export <id>",
		Short: "Export notes as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				if stdout {
					md, err := app.AnnotationCLI.Render(context.Background(), args[0])
					if err != nil {
						return err
					}
					_, _ = fmt.Fprint(cmd.OutOrStdout(), md)
					return nil
				}
				out, err := app.AnnotationCLI.Export(context.Background(), args[0], outPath)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\n", out.Notes, out.Path)
				return nil
			})
		},
	}
	export.Flags().StringVar(&outPath, "out", "", "output file (defaults to the export directory)")
	export.Flags().BoolVar(&stdout, "stdout", false, "print instead of writing a file")

	notes.AddCommand(add, list, del, export)
	return notes
}

func newWatchCmd(libraryPath *string) *cobra.Command {
	var inbox string
	var tags []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Import PDFs dropped into an inbox directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if inbox == "" {
				inbox = filepath.Join(*libraryPath, "inbox")
			}
			if err := os.MkdirAll(inbox, 0o755); err != nil {
				return fmt.Errorf("prepare inbox: %w", err)
			}
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "watching %s (ctrl+c to stop)\n", inbox)
				return app.NewInboxWatcher(inbox, tags).Run(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&inbox, "inbox", "", "inbox directory (defaults to <library>/inbox)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags given to imported entries")
	return cmd
}

func newStreakCmd(libraryPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the reading streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*libraryPath, func(app *bootstrap.App) error {
				s, err := app.SessionCLI.Streak(context.Background())
				if err != nil {
					return err
				}
				last := "never"
				if !s.LastDay.IsZero() {
					last = s.LastDay.Format(time.DateOnly)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "current: %d days\nlongest: %d days\nlast read: %s\n", s.Current, s.Longest, last)
				return nil
			})
		},
	}
}
