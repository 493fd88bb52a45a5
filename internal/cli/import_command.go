package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"timeclock/internal/api"
	"timeclock/internal/errors"
	"timeclock/internal/spreadsheet"
)

// ImportCommand loads employee registers and punch logs from spreadsheets
type ImportCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer

	// open is replaced in tests
	open func(name string) (io.ReadCloser, error)
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App) *ImportCommand {
	return &ImportCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
		open: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}
}

// Execute imports each file in order, stopping at the first failure.
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "import", "usage: tc import <file.xlsx|file.xls>...")
	}

	for _, path := range args {
		if err := c.importFile(ctx, path); err != nil {
			return c.errorHandler.Handle("import", err)
		}
	}
	return nil
}

func (c *ImportCommand) importFile(ctx context.Context, path string) error {
	source := filepath.Base(path)
	f, err := c.open(path)
	if err != nil {
		return errors.NewImportError(source, err)
	}
	defer f.Close()

	contents, err := spreadsheet.Read(f, source)
	if err != nil {
		return err
	}

	result, err := c.businessAPI.Import(ctx, api.ImportBatch{
		Source:    source,
		Employees: contents.Employees,
		Punches:   contents.Punches,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s: %d employees, %d punches imported", source, result.Employees, result.Punches)
	if result.Skipped > 0 {
		fmt.Fprintf(c.out, ", %d skipped", result.Skipped)
	}
	fmt.Fprintln(c.out)
	return nil
}
