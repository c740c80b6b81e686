// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats summarizes the JSON input folder before an export.
package stats

import (
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/news-sentences/internal/pipeline"
)

const bytesPerMB = 1024 * 1024

// FolderStats describes the JSON files found under a folder.
type FolderStats struct {
	Folder        string
	Files         int
	TotalBytes    int64
	Largest       string
	LargestBytes  int64
	Smallest      string
	SmallestBytes int64
}

// TotalMB returns the combined size in mebibytes.
func (s FolderStats) TotalMB() float64 {
	return float64(s.TotalBytes) / bytesPerMB
}

// Collect walks folder with the same rules as an export run. A folder with
// no JSON files is not an error; a missing one returns pipeline.ErrNotFound.
// Ties for largest or smallest go to the first file in discovery order.
func Collect(folder string) (FolderStats, error) {
	files, err := pipeline.Discover(folder)
	if err != nil {
		return FolderStats{}, err
	}

	st := FolderStats{Folder: folder}
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return st, fmt.Errorf("reading size of %s: %w", path, err)
		}
		size := info.Size()
		if st.Files == 0 || size > st.LargestBytes {
			st.Largest, st.LargestBytes = path, size
		}
		if st.Files == 0 || size < st.SmallestBytes {
			st.Smallest, st.SmallestBytes = path, size
		}
		st.Files++
		st.TotalBytes += size
	}
	return st, nil
}

// Print writes the folder summary shown before an export.
func (s FolderStats) Print(w io.Writer) {
	fmt.Fprintf(w, "Folder statistics: %s\n", s.Folder)
	fmt.Fprintf(w, "- JSON files: %d\n", s.Files)
	fmt.Fprintf(w, "- Total size: %.2f MB\n", s.TotalMB())
	if s.Files > 0 {
		fmt.Fprintf(w, "- Largest file: %s\n", s.Largest)
		fmt.Fprintf(w, "- Smallest file: %s\n", s.Smallest)
	}
}
