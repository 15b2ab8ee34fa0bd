package content

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// MaxImageWidth is the default width images are scaled down to.
	MaxImageWidth = 800
	jpegQuality   = 80
)

// Image describes one processed image.
type Image struct {
	Filename string // written name, relative to the output directory
	Source   string
	Width    int
	Height   int
	Size     int
	Skipped  bool // output was already newer than the source
}

// ProcessImage decodes an image from src, scales it down to maxWidth when
// wider, and encodes it as JPEG.
func ProcessImage(src io.Reader, maxWidth int) ([]byte, int, int, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if maxWidth > 0 && w > maxWidth {
		newH := h * maxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

// ProcessImages converts every GIF, JPEG and PNG below srcDir into a
// slug-named JPEG in dstDir. Outputs newer than their source are left alone.
func ProcessImages(srcDir, dstDir string, maxWidth int) ([]Image, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	used := make(map[string]bool)
	var images []Image
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isImage(p) {
			return nil
		}
		img := Image{Source: p, Filename: uniqueFilename(used, p)}
		out := filepath.Join(dstDir, img.Filename)

		srcInfo, err := d.Info()
		if err != nil {
			return err
		}
		if dstInfo, err := os.Stat(out); err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
			img.Skipped = true
			img.Size = int(dstInfo.Size())
			images = append(images, img)
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		data, w, h, err := ProcessImage(f, maxWidth)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
		img.Width, img.Height, img.Size = w, h, len(data)
		images = append(images, img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func isImage(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// uniqueFilename slugifies the base name of p and appends a counter when an
// earlier file already took that name.
func uniqueFilename(used map[string]bool, p string) string {
	base := Slugify(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
	if base == "" {
		base = "image"
	}
	candidate := base + ".jpg"
	for counter := 2; used[candidate]; counter++ {
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
	used[candidate] = true
	return candidate
}
