package song

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	YAML Format = iota
	MsgPack
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case MsgPack:
		return "msgpack"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFor picks the codec from a file extension: .tenori, .yaml and .yml
// are YAML; .tenorib and .msgpack are MessagePack.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tenori", ".yaml", ".yml":
		return YAML, nil
	case ".tenorib", ".msgpack":
		return MsgPack, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Encode validates s and serializes it.
func Encode(s *Song, f Format) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch f {
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case MsgPack:
		data, err := msgpack.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode msgpack: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

// Decode parses and validates data. Unknown YAML keys are rejected.
func Decode(data []byte, f Format) (*Song, error) {
	var s Song
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case MsgPack:
		if err := msgpack.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func Load(path string) (*Song, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load song: %w", err)
	}
	s, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// Save writes through a temporary file in the same directory so a failed
// write never truncates an existing song.
func Save(path string, s *Song) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(s, f)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tenori-*")
	if err != nil {
		return fmt.Errorf("save song: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save song: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save song: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save song: %w", err)
	}
	return nil
}
