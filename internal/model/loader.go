package model

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	ClassifierFile = "classifier.json"
	SupportFile    = "support.json"

	KindSoftmax      = "softmax"
	KindTreeEnsemble = "tree_ensemble"
)

type classifierFile struct {
	Kind         string              `json:"kind"`
	Classes      []string            `json:"classes"`
	Softmax      *SoftmaxParams      `json:"softmax,omitempty"`
	TreeEnsemble *TreeEnsembleParams `json:"tree_ensemble,omitempty"`
}

// Load reads the classifier and its support data from dir.
func Load(dir string) (*Artifact, error) {
	var support Support
	if err := readJSON(filepath.Join(dir, SupportFile), &support); err != nil {
		return nil, err
	}
	if len(support.Xcol) == 0 {
		return nil, fmt.Errorf("%s declares no feature columns: %w", SupportFile, ErrInvalidArtifact)
	}

	var file classifierFile
	if err := readJSON(filepath.Join(dir, ClassifierFile), &file); err != nil {
		return nil, err
	}

	classifier, err := newClassifier(file, len(support.Xcol))
	if err != nil {
		return nil, err
	}

	slog.Info("model artifact loaded",
		slog.String("dir", dir),
		slog.String("kind", file.Kind),
		slog.String("version", support.Version),
		slog.Int("feature_count", len(support.Xcol)),
		slog.Any("classes", file.Classes),
	)

	return &Artifact{
		Classifier: classifier,
		Support:    support,
	}, nil
}

func newClassifier(file classifierFile, width int) (Classifier, error) {
	switch file.Kind {
	case KindSoftmax:
		if file.Softmax == nil {
			return nil, fmt.Errorf("kind %s without parameters: %w", file.Kind, ErrInvalidArtifact)
		}
		return NewSoftmaxClassifier(file.Classes, *file.Softmax, width)
	case KindTreeEnsemble:
		if file.TreeEnsemble == nil {
			return nil, fmt.Errorf("kind %s without parameters: %w", file.Kind, ErrInvalidArtifact)
		}
		return NewTreeEnsembleClassifier(file.Classes, *file.TreeEnsemble, width)
	default:
		return nil, fmt.Errorf("unsupported classifier kind %q: %w", file.Kind, ErrInvalidArtifact)
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %v: %w", path, err, ErrInvalidArtifact)
	}
	return nil
}
