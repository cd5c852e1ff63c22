package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/aiprojectops/score-files/internal/cli"
	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/config"
	"github.com/aiprojectops/score-files/internal/engine"
)

// loadPipeline resolves settings from viper and builds a pipeline that
// writes to out.
func loadPipeline(out io.Writer) (*pipeline, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return newPipeline(settings, out, newLLMClassifier)
}

// finishStage turns a stage-fatal error into a styled message with the next
// step and a clean exit. Configuration and unexpected errors are returned.
func finishStage(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if engine.Canceled(err) {
		fmt.Fprintln(w, cli.FormatWarning("Stopped before finishing; nothing was written"))
		return nil
	}
	if !common.IsStageFatal(err) {
		return err
	}
	fmt.Fprintln(w, renderError(err))
	return nil
}

// renderError formats err for the terminal, adding the hint of a
// common.UserError when there is one.
func renderError(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		lines := []string{cli.FormatError(userErr.Error())}
		if userErr.Hint != "" {
			lines = append(lines, cli.FormatHint(userErr.Hint))
		}
		return strings.Join(lines, "\n")
	}

	msg := cli.FormatError(err.Error())
	if hint := hintFor(err); hint != "" {
		msg += "\n" + cli.FormatHint(hint)
	}
	return msg
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, common.ErrNoImages):
		return "put .jpg, .jpeg or .png photos in the image directory (--images)"
	case errors.Is(err, common.ErrUnreadableFormat):
		return "save the table as CSV with the expected header, in UTF-8 if possible"
	case errors.Is(err, common.ErrNothingToEvaluate):
		return "every prediction failed; check the model settings and run 'cropeval classify' again"
	case errors.Is(err, common.ErrNotFound):
		return "check the path, or run the previous step first"
	case errors.Is(err, common.ErrMissingConfig), errors.Is(err, common.ErrInvalidConfig):
		return "check the config file and CROPEVAL_ environment variables"
	default:
		return ""
	}
}
