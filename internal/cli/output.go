package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"

	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"github.com/thenoetrevino/kanban/internal/models"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
}

// Identified is implemented by results that print only their ID in quiet mode
type Identified interface {
	GetID() string
}

// Describer is implemented by results with their own human-readable form
type Describer interface {
	Describe() string
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data any) error {
	if f.Quiet {
		if idGetter, ok := data.(Identified); ok {
			_, err := fmt.Fprintln(os.Stdout, idGetter.GetID())
			return err
		}
	}

	if f.JSON {
		return encodeJSON(os.Stdout, map[string]any{
			"success": true,
			"data":    data,
		})
	}

	if f.Quiet {
		return nil
	}

	// Human-readable format
	return f.prettyPrint(data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return encodeJSON(os.Stdout, map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	fmt.Fprintf(os.Stderr, "%s %s\n", styles.ErrorStyle.Render("Error:"), message)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", styles.WarningStyle.Render("Hint:"), suggestion)
	}
	return nil
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data any) error {
	var out string
	switch v := data.(type) {
	case Describer:
		out = v.Describe()
	case models.Board:
		out = styles.RenderBoard(v)
	case models.Task:
		out = styles.RenderTask(v)
	default:
		out = fmt.Sprintf("%+v", data)
	}
	_, err := fmt.Fprintln(os.Stdout, out)
	return err
}

func encodeJSON(w io.Writer, v any) error {
	return sonic.ConfigStd.NewEncoder(w).Encode(v)
}
