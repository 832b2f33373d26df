package dataset

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeIDXImages writes images in IDX format.
func writeIDXImages(w io.Writer, images [][]byte, rows, cols int) error {
	hdr := imageHeader{Magic: imageMagic, Num: uint32(len(images)), Rows: uint32(rows), Cols: uint32(cols)}
	if err := binary.Write(w, binary.BigEndian, hdr); err != nil {
		return err
	}
	for i, img := range images {
		if len(img) != rows*cols {
			return fmt.Errorf("image %d has %d pixels, want %d", i, len(img), rows*cols)
		}
		if _, err := w.Write(img); err != nil {
			return err
		}
	}
	return nil
}

// writeIDXLabels writes labels in IDX format.
func writeIDXLabels(w io.Writer, labels []byte) error {
	hdr := labelHeader{Magic: labelMagic, Num: uint32(len(labels))}
	if err := binary.Write(w, binary.BigEndian, hdr); err != nil {
		return err
	}
	_, err := w.Write(labels)
	return err
}

// writeMNISTFixture writes the four MNIST files into dir.
// Image i has every pixel set to byte(i) and label i%10.
func writeMNISTFixture(t *testing.T, dir string, trainN, testN int, gz bool) {
	t.Helper()
	write := func(name string, fn func(w io.Writer) error) {
		var buf bytes.Buffer
		require.NoError(t, fn(&buf))
		data := buf.Bytes()
		if gz {
			var zbuf bytes.Buffer
			zw := gzip.NewWriter(&zbuf)
			_, err := zw.Write(data)
			require.NoError(t, err)
			require.NoError(t, zw.Close())
			data = zbuf.Bytes()
			name += ".gz"
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}

	for _, set := range []struct {
		images, labels string
		n              int
	}{
		{trainImagesFile, trainLabelsFile, trainN},
		{testImagesFile, testLabelsFile, testN},
	} {
		images := make([][]byte, set.n)
		labels := make([]byte, set.n)
		for i := range images {
			images[i] = bytes.Repeat([]byte{byte(i)}, 28*28)
			labels[i] = byte(i % 10)
		}
		write(set.images, func(w io.Writer) error { return writeIDXImages(w, images, 28, 28) })
		write(set.labels, func(w io.Writer) error { return writeIDXLabels(w, labels) })
	}
}
