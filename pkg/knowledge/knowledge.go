package knowledge

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"WaiAutoReply/pkg/nlp"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	SourceEmbedded = "embedded"
	s3Scheme       = "s3://"
)

//go:embed default.yaml
var defaultDocument []byte

var (
	ErrInvalidSource   = errors.New("invalid knowledge base source")
	ErrS3NotConfigured = errors.New("s3 knowledge base source requires an s3 client")
)

type Document struct {
	Version string       `yaml:"version"`
	Intents []nlp.Intent `yaml:"intents" validate:"required,min=1,dive"`
}

// ObjectReader fetches a whole object from a bucket.
type ObjectReader interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

type ILoader interface {
	Load(ctx context.Context, source string) (*nlp.KnowledgeBase, error)
	Parse(data []byte) (*nlp.KnowledgeBase, error)
}

type loader struct {
	log       *logrus.Logger
	validator *validator.Validate
	objects   ObjectReader
}

func NewLoader(log *logrus.Logger, validate *validator.Validate, objects ObjectReader) ILoader {
	if validate == nil {
		validate = validator.New()
	}
	return &loader{
		log:       log,
		validator: validate,
		objects:   objects,
	}
}

func (l *loader) Load(ctx context.Context, source string) (*nlp.KnowledgeBase, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}

	kb, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", describe(source), err)
	}

	l.log.WithFields(logrus.Fields{
		"source":  describe(source),
		"intents": kb.Len(),
	}).Info("Knowledge base loaded")

	return kb, nil
}

func (l *loader) read(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)

	switch {
	case source == "" || source == SourceEmbedded:
		return defaultDocument, nil
	case strings.HasPrefix(source, s3Scheme):
		bucket, key, err := splitS3(source)
		if err != nil {
			return nil, err
		}
		if l.objects == nil {
			return nil, ErrS3NotConfigured
		}
		data, err := l.objects.GetObject(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return data, nil
	}
}

func (l *loader) Parse(data []byte) (*nlp.KnowledgeBase, error) {
	var doc Document

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}

	if err := l.validator.Struct(doc); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return nlp.NewKnowledgeBase(doc.Intents)
}

// Default returns the knowledge base shipped with the binary.
func Default() (*nlp.KnowledgeBase, error) {
	l := &loader{validator: validator.New()}
	return l.Parse(defaultDocument)
}

func splitS3(source string) (string, string, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(source, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSource, source)
	}
	return bucket, key, nil
}

func describe(source string) string {
	if strings.TrimSpace(source) == "" {
		return SourceEmbedded
	}
	return source
}
