package session

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"
)

// CaptureToFile is the default Capturer: grab the region from the screen and
// write it as a PNG in the output directory.
func CaptureToFile(r Region) (string, error) {
	img, err := screenshot.CaptureRect(image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H))
	if err != nil {
		return "", fmt.Errorf("capture region: %w", err)
	}
	path := filepath.Join(outputDir(), time.Now().Format("snip-20060102-150405.png"))
	if err := writePNG(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// outputDir prefers ~/Pictures when it exists, otherwise the temp dir. The
// path lands on the clipboard either way, so the user always finds the file.
func outputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	pictures := filepath.Join(home, "Pictures")
	if info, err := os.Stat(pictures); err == nil && info.IsDir() {
		return pictures
	}
	return os.TempDir()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write capture: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write capture: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write capture: %w", err)
	}
	return nil
}
