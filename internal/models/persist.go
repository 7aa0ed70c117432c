package models

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"rfcredit/internal/features"
)

// Bundle is everything needed to score raw records: the forest, the encoder
// fitted on its training data and the cut used to turn raw votes into classes.
type Bundle struct {
	Forest    *RandomForest
	Encoder   *features.Encoder
	Threshold float64
}

func (b *Bundle) Encode(w io.Writer) error {
	if b.Forest == nil || len(b.Forest.Trees) == 0 {
		return errors.Wrap(ErrNotTrained, "encode bundle")
	}
	return errors.Wrap(gob.NewEncoder(w).Encode(b), "encode bundle")
}

func DecodeBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.Wrap(err, "decode bundle")
	}
	if b.Forest == nil || len(b.Forest.Trees) == 0 {
		return nil, errors.Wrap(ErrNotTrained, "decode bundle")
	}
	if b.Encoder != nil && b.Encoder.Categories == nil {
		b.Encoder.Categories = map[string]float64{}
	}
	return &b, nil
}

func SaveBundle(path string, b *Bundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create model dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create model file")
	}
	if err := b.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadBundle(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open model file")
	}
	defer f.Close()
	return DecodeBundle(f)
}
