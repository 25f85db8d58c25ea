package residuals

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// FileSource reads one residual per line. Blank lines and lines starting
// with '#' are skipped.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (f *FileSource) Name() string { return "file:" + f.Path }

func (f *FileSource) Load() ([]float64, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open residuals file: %w", err)
	}
	defer fh.Close()

	var out []float64
	sc := bufio.NewScanner(fh)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		// tolerate a trailing CSV column, e.g. "0.0123,employee-7"
		if i := strings.IndexByte(text, ','); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("residuals file %s line %d: %w", f.Path, line, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("residuals file %s line %d: value is not finite", f.Path, line)
		}
		out = append(out, math.Abs(v))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read residuals file: %w", err)
	}
	return out, nil
}
