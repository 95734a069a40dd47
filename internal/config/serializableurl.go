package config

import (
	"errors"
	"net/url"

	"gopkg.in/yaml.v3"
)

var (
	ErrMustBeScalar   = errors.New("value must be a scalar")
	ErrMustBeAbsolute = errors.New("URL must be absolute")
)

type SerializableURL struct {
	URL *url.URL
}

func (s *SerializableURL) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return ErrMustBeScalar
	}
	return s.UnmarshalText([]byte(node.Value))
}

func (s SerializableURL) MarshalYAML() (any, error) {
	return s.String(), nil
}

func (s *SerializableURL) UnmarshalText(text []byte) error {
	parsed, err := url.Parse(string(text))
	if err != nil {
		return err
	}
	if !parsed.IsAbs() {
		return ErrMustBeAbsolute
	}

	s.URL = parsed
	return nil
}

func (s SerializableURL) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s SerializableURL) String() string {
	if s.URL == nil {
		return ""
	}
	return s.URL.String()
}
