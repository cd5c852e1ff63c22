package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/config"
	"github.com/aiprojectops/score-files/internal/model"
	"github.com/aiprojectops/score-files/internal/tabular"
)

// TemplateOptions controls answer template generation.
type TemplateOptions struct {
	// Extensions defaults to TemplateExtensions.
	Extensions []string
	// Encodings are tried when reading an existing table in merge mode.
	Encodings []tabular.Encoding
	// Merge keeps rows already present in the output file and only appends
	// filenames it does not list yet. Without Merge the file is replaced.
	Merge bool
}

// TemplateResult describes a generated template.
type TemplateResult struct {
	Path        string
	Images      []model.ImageRef
	Added       []string
	Preserved   int
	Overwritten bool
}

// GenerateTemplate scans imageDir and writes an answer table with one row per
// image and an empty label. It fails with common.ErrNoImages when the
// directory is missing or holds no qualifying files.
func GenerateTemplate(imageDir, outPath string, opts TemplateOptions, diag *common.Diagnostics) (*TemplateResult, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = TemplateExtensions
	}

	images, err := ScanImages(imageDir, exts)
	if err != nil {
		return nil, err
	}

	result := &TemplateResult{Path: outPath, Images: images}
	exists := config.FileExists(outPath)

	if exists && opts.Merge {
		return mergeTemplate(result, opts.Encodings, diag)
	}

	if exists {
		result.Overwritten = true
		diag.Warn("Answer table already exists and will be overwritten; any labels in it are lost (use --merge to keep them)",
			"path", outPath)
	}

	rows := make([][]string, 0, len(images))
	for _, img := range images {
		rows = append(rows, []string{img.Filename, ""})
		result.Added = append(result.Added, img.Filename)
	}
	if err := tabular.WriteTable(outPath, LabelHeader, rows); err != nil {
		return nil, err
	}
	return result, nil
}

func mergeTemplate(result *TemplateResult, encodings []tabular.Encoding, diag *common.Diagnostics) (*TemplateResult, error) {
	table, err := tabular.ReadTable(result.Path, LabelHeader, encodings)
	if err != nil {
		if errors.Is(err, common.ErrUnreadableFormat) {
			return nil, common.NewUserErrorWithHint(
				"existing answer table cannot be merged",
				"fix or move the file, or regenerate it without --merge",
				err,
			)
		}
		return nil, err
	}

	existing := make(map[string]string, len(table.Rows))
	for _, row := range table.Rows {
		filename := strings.TrimSpace(row.Get(ColumnFilename))
		if filename == "" {
			continue
		}
		existing[filename] = strings.TrimSpace(row.Get(ColumnLabel))
	}

	present := make(map[string]struct{}, len(result.Images))
	for _, img := range result.Images {
		present[img.Filename] = struct{}{}
		if _, ok := existing[img.Filename]; !ok {
			existing[img.Filename] = ""
			result.Added = append(result.Added, img.Filename)
		} else {
			result.Preserved++
		}
	}

	filenames := make([]string, 0, len(existing))
	for filename := range existing {
		filenames = append(filenames, filename)
		if _, ok := present[filename]; !ok {
			diag.Warn("Answer table lists an image that is no longer in the image directory", "filename", filename)
		}
	}
	sort.Strings(filenames)

	rows := make([][]string, 0, len(filenames))
	for _, filename := range filenames {
		rows = append(rows, []string{filename, existing[filename]})
	}
	if err := tabular.WriteTable(result.Path, LabelHeader, rows); err != nil {
		return nil, fmt.Errorf("failed to write merged template: %w", err)
	}
	return result, nil
}
