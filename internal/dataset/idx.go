package dataset

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// IDX magic numbers.
const (
	imageMagic = 2051 // 0x00000803
	labelMagic = 2049 // 0x00000801
)

// imageHeader is the IDX header of an image file.
type imageHeader struct{ Magic, Num, Rows, Cols uint32 }

// labelHeader is the IDX header of a label file.
type labelHeader struct{ Magic, Num uint32 }

// readIDXImages reads an MNIST image file in IDX format.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
//
// Returns the raw pixels of each image and the image side lengths.
func readIDXImages(r io.Reader) (images [][]byte, rows, cols int, err error) {
	var hdr imageHeader
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	if hdr.Magic != imageMagic {
		return nil, 0, 0, fmt.Errorf("invalid magic number: got %d, want %d", hdr.Magic, imageMagic)
	}

	size := int(hdr.Rows * hdr.Cols)
	images = make([][]byte, hdr.Num)
	for i := range images {
		images[i] = make([]byte, size)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}
	return images, int(hdr.Rows), int(hdr.Cols), nil
}

// readIDXLabels reads an MNIST label file in IDX format.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func readIDXLabels(r io.Reader) ([]byte, error) {
	var hdr labelHeader
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("failed to read label header: %w", err)
	}
	if hdr.Magic != labelMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", hdr.Magic, labelMagic)
	}

	labels := make([]byte, hdr.Num)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}

// openIDX opens path, falling back to path+".gz" as distributed on the
// MNIST site. The returned closer releases every underlying resource.
func openIDX(path string) (io.Reader, io.Closer, error) {
	file, err := os.Open(path)
	if err == nil {
		return bufio.NewReader(file), file, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}

	gzFile, gzErr := os.Open(path + ".gz")
	if gzErr != nil {
		// Report the plain name: it is the one users are told to provide.
		return nil, nil, err
	}
	zr, err := gzip.NewReader(bufio.NewReader(gzFile))
	if err != nil {
		gzFile.Close()
		return nil, nil, fmt.Errorf("%s.gz: %w", path, err)
	}
	return zr, closers{zr, gzFile}, nil
}

type closers []io.Closer

func (cs closers) Close() error {
	var errs []error
	for _, c := range cs {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
