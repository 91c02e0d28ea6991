package pipeline

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/teranos/tempex/attributes"
	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/features"
	"github.com/teranos/tempex/logger"
	"github.com/teranos/tempex/tagger"
)

// Models bundles everything a trained pipeline needs at inference time.
// The feature groups and schema fingerprint travel with the weights so a
// loaded model can refuse extractors it was not trained against.
type Models struct {
	// Schema is the feature-set fingerprint shared by all three models.
	Schema string

	// Groups records the feature groups the models were trained with, so
	// loading a model reconstructs the exact extractor configuration.
	Groups features.Groups

	// Event and Timex are the two sequence taggers.
	Event *tagger.Model
	Timex *tagger.Model

	// Attributes holds the per-attribute classifiers for both types.
	Attributes *attributes.Model
}

// Save writes the model bundle with gob. The write goes through a temp file
// in the same directory so a crash never leaves a truncated model behind.
func (m *Models) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating model directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp model file")
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(m); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "encoding model to %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp model file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replacing model file %s", path)
	}

	logger.Logger.Infow("Saved model bundle",
		logger.FieldModel, path,
		logger.FieldFingerprint, m.Schema)
	return nil
}

// LoadModels reads a model bundle written by Save.
func LoadModels(path string) (*Models, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrModelNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "opening model file %s", path)
	}
	defer f.Close()

	var m Models
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, errors.Wrapf(err, "decoding model file %s", path)
	}
	if m.Event == nil || m.Timex == nil || m.Attributes == nil {
		return nil, errors.Newf("model file %s is incomplete", path)
	}

	logger.Logger.Debugw("Loaded model bundle",
		logger.FieldModel, path,
		logger.FieldFingerprint, m.Schema)
	return &m, nil
}
