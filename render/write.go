package render

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var ErrWrite = errors.New("cannot write output image")

// EncodePNG encodes img with the PNG defaults.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, img)
}

// WritePNG writes img to path. The file appears only after it was
// written completely.
func WritePNG(path string, img image.Image) error {
	return writeAtomic(path, func(w io.Writer) error {
		return EncodePNG(w, img)
	})
}

// WriteFile writes already encoded image data to path.
func WriteFile(path string, data []byte) error {
	return writeAtomic(path, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	})
}

func writeAtomic(path string, write func(io.Writer) error) error {
	f, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".")
	if err != nil {
		return errors.Wrapf(ErrWrite, "%s: %v", path, err)
	}
	tmp := f.Name()
	fail := func(err error) error {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(ErrWrite, "%s: %v", path, err)
	}

	if err := write(f); err != nil {
		return fail(err)
	}
	if err := f.Chmod(0644); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(ErrWrite, "%s: %v", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(ErrWrite, "%s: %v", path, err)
	}
	return nil
}
