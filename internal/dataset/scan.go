// Package dataset manages the image set and the flat tables that describe it:
// the answer template, the ground-truth label store and the predictions store.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aiprojectops/score-files/internal/common"
	"github.com/aiprojectops/score-files/internal/model"
)

// Extension allow-lists, compared case-insensitively.
var (
	// BatchExtensions are the formats sent to the vision model.
	BatchExtensions = []string{".jpg", ".jpeg", ".png"}
	// TemplateExtensions are the formats listed in a fresh answer template.
	TemplateExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}
)

// ScanImages lists the regular files in dir whose extension is in exts,
// sorted by filename. Subdirectories are not descended into.
// It fails with common.ErrNoImages when dir is missing or nothing qualifies.
func ScanImages(dir string, exts []string) ([]model.ImageRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("image directory %s does not exist: %w", dir, common.ErrNoImages)
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	var images []model.ImageRef
	for _, entry := range entries {
		if !isRegularFile(dir, entry) {
			continue
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		images = append(images, model.NewImageRef(dir, entry.Name()))
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("no %s files in %s: %w", strings.Join(exts, "/"), dir, common.ErrNoImages)
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Filename < images[j].Filename
	})
	return images, nil
}

// isRegularFile follows symlinks so a linked photo still counts as a file.
func isRegularFile(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
