package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/wavio"
)

// ExtractSample writes sample n to path as a WAV file.
func ExtractSample(b *bank.Bank, n int, path string) error {
	s, err := b.Sample(n)
	if err != nil {
		return err
	}
	pcm, err := s.PCM()
	if err != nil {
		return err
	}
	return wavio.Write(path, pcm)
}

// ExtractSamples writes every sample into dir and returns the file paths.
func ExtractSamples(b *bank.Bank, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", bank.ErrIO, err)
	}
	var paths []string
	for i := 0; i < b.SampleCount(); i++ {
		s, err := b.Sample(i)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("%03d %s.wav", i, fileName(s.Name())))
		if err := ExtractSample(b, i, path); err != nil {
			return paths, err
		}
		b.Logger().Debug("sample extracted", "index", i, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// fileName replaces characters that are unsafe in file names.
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return "sample"
	}
	return name
}
