package dataset

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDXRoundTrip(t *testing.T) {
	images := [][]byte{{0, 1, 2, 3}, {255, 128, 64, 32}}
	var buf bytes.Buffer
	require.NoError(t, writeIDXImages(&buf, images, 2, 2))

	got, rows, cols, err := readIDXImages(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, images, got)

	buf.Reset()
	require.NoError(t, writeIDXLabels(&buf, []byte{7, 3}))
	labels, err := readIDXLabels(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 3}, labels)
}

func TestIDXBadMagic(t *testing.T) {
	// A complete image header carrying the label magic.
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, imageHeader{Magic: labelMagic, Num: 1, Rows: 1, Cols: 1}))
	buf.WriteByte(7)

	_, _, _, err := readIDXImages(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid magic number")

	// A complete label header carrying the image magic.
	buf.Reset()
	require.NoError(t, binary.Write(&buf, binary.BigEndian, labelHeader{Magic: imageMagic, Num: 1}))
	buf.WriteByte(3)

	_, err = readIDXLabels(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid magic number")
}

func TestIDXTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeIDXImages(&buf, [][]byte{{1, 2, 3, 4}}, 2, 2))
	data := buf.Bytes()[:buf.Len()-2]

	_, _, _, err := readIDXImages(bytes.NewReader(data))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	for _, gz := range []bool{false, true} {
		dir := t.TempDir()
		writeMNISTFixture(t, dir, 30, 12, gz)

		p, err := Load(dir, LoadOptions{ValidationSize: 10})
		require.NoError(t, err, "gz=%v", gz)

		assert.Equal(t, 10, p.Validation.Len())
		assert.Equal(t, 20, p.Train.Len())
		assert.Equal(t, 12, p.Test.Len())

		// First training sample is the 11th in the file.
		assert.Equal(t, int32(0), p.Train.Labels[0])
		assert.InDelta(t, 10.0/255.0, p.Train.Images[0][0], 1e-6)
		assert.Len(t, p.Train.Images[0], ImageSize)
		assert.Equal(t, int32(1), p.Validation.Labels[1])
		assert.InDelta(t, 11.0/255.0, p.Test.Images[11][783], 1e-6)
	}
}

func TestLoad_MaxSamples(t *testing.T) {
	dir := t.TempDir()
	writeMNISTFixture(t, dir, 40, 40, false)

	p, err := Load(dir, LoadOptions{ValidationSize: 5, MaxSamples: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, p.Train.Len())
	assert.Equal(t, 8, p.Test.Len())
	assert.Equal(t, 5, p.Validation.Len())
}

func TestLoad_NoValidation(t *testing.T) {
	dir := t.TempDir()
	writeMNISTFixture(t, dir, 10, 5, false)

	p, err := Load(dir, LoadOptions{ValidationSize: -1})
	require.NoError(t, err)
	assert.Equal(t, 10, p.Train.Len())
	assert.Equal(t, 0, p.Validation.Len())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing files", func(t *testing.T) {
		_, err := Load(t.TempDir(), LoadOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("validation swallows training set", func(t *testing.T) {
		dir := t.TempDir()
		writeMNISTFixture(t, dir, 10, 5, false)
		_, err := Load(dir, LoadOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "leaves no training samples")
	})

	t.Run("label out of range", func(t *testing.T) {
		dir := t.TempDir()
		writeMNISTFixture(t, dir, 20, 5, false)
		var buf bytes.Buffer
		require.NoError(t, writeIDXLabels(&buf, []byte{0, 1, 2, 11, 4}))
		require.NoError(t, os.WriteFile(filepath.Join(dir, testLabelsFile), buf.Bytes(), 0o600))

		_, err := Load(dir, LoadOptions{ValidationSize: 5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "label out of range")
	})

	t.Run("count mismatch", func(t *testing.T) {
		dir := t.TempDir()
		writeMNISTFixture(t, dir, 20, 5, false)
		var buf bytes.Buffer
		require.NoError(t, writeIDXLabels(&buf, []byte{0, 1}))
		require.NoError(t, os.WriteFile(filepath.Join(dir, testLabelsFile), buf.Bytes(), 0o600))

		_, err := Load(dir, LoadOptions{ValidationSize: 5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "image count")
	})
}

func TestSplit_OneHot(t *testing.T) {
	s := &Split{Images: [][]float32{make([]float32, ImageSize)}, Labels: []int32{3}}
	v := s.OneHot(0)
	assert.Len(t, v, NumClasses)
	assert.Equal(t, float32(1), v[3])

	sum := float32(0)
	for _, x := range v {
		sum += x
	}
	assert.Equal(t, float32(1), sum)
}

func TestSynthetic(t *testing.T) {
	p, err := Synthetic(SyntheticOptions{Classes: 2, Train: 10, Validation: 4, Test: 6})
	require.NoError(t, err)
	assert.Equal(t, 10, p.Train.Len())
	assert.Equal(t, 4, p.Validation.Len())
	assert.Equal(t, 6, p.Test.Len())

	// Class 0 lights the first half, class 1 the second.
	assert.Equal(t, int32(0), p.Train.Labels[0])
	assert.Equal(t, float32(1), p.Train.Images[0][0])
	assert.Equal(t, float32(0), p.Train.Images[0][ImageSize-1])
	assert.Equal(t, int32(1), p.Train.Labels[1])
	assert.Equal(t, float32(0), p.Train.Images[1][0])
	assert.Equal(t, float32(1), p.Train.Images[1][ImageSize-1])
}

func TestSynthetic_NoiseStaysInRange(t *testing.T) {
	p, err := Synthetic(SyntheticOptions{Train: 20, Test: 1, Noise: 0.4, Seed: 9})
	require.NoError(t, err)
	for _, img := range p.Train.Images {
		for _, px := range img {
			assert.GreaterOrEqual(t, px, float32(0))
			assert.LessOrEqual(t, px, float32(1))
		}
	}

	again, err := Synthetic(SyntheticOptions{Train: 20, Test: 1, Noise: 0.4, Seed: 9})
	require.NoError(t, err)
	assert.Equal(t, p.Train.Images, again.Train.Images)
}

func TestSynthetic_Invalid(t *testing.T) {
	for _, opts := range []SyntheticOptions{
		{Classes: 1},
		{Classes: 11},
		{Train: -1},
		{Noise: 2},
	} {
		_, err := Synthetic(opts)
		assert.Error(t, err, "%+v", opts)
	}
}
