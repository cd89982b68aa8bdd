// Package fonts loads the BDF bitmap fonts the text scroller draws with.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"

	bdf "github.com/zachomedia/go-bdf"
	"golang.org/x/image/font"
)

// Load reads <dir>/<name>.bdf and returns a face ready for drawing.
func Load(dir, name string) (font.Face, error) {
	path := filepath.Join(dir, name+".bdf")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", name, err)
	}
	f, err := bdf.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("font %q: parse %s: %w", name, path, err)
	}
	return f.NewFace(), nil
}

// Width is the horizontal advance of text in whole pixels.
func Width(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}

// Baseline picks a y coordinate that roughly centers glyphs on a panel of
// the given height.
func Baseline(face font.Face, rows int) int {
	return (rows + face.Metrics().Ascent.Ceil()) / 2
}
