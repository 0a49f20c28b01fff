package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of a setup document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// stepDoc and actionDoc are the wire shapes. They keep the field names of the
// setup document stable while the in-memory model uses Go names and plain
// booleans with their defaults applied.
type stepDoc struct {
	Content     string      `yaml:"content,omitempty" json:"content,omitempty"`
	ContentPath string      `yaml:"contentPath,omitempty" json:"contentPath,omitempty"`
	Image       string      `yaml:"image,omitempty" json:"image,omitempty"`
	Actions     []actionDoc `yaml:"actions,omitempty" json:"actions,omitempty"`
	SwitchStep  bool        `yaml:"switchStep,omitempty" json:"switchStep,omitempty"`
	YesActions  []actionDoc `yaml:"yesActions,omitempty" json:"yesActions,omitempty"`
	NoActions   []actionDoc `yaml:"noActions,omitempty" json:"noActions,omitempty"`
	Skippable   *bool       `yaml:"skippable,omitempty" json:"skippable,omitempty"`
}

type actionDoc struct {
	StepType  string   `yaml:"stepType" json:"stepType"`
	AppPath   string   `yaml:"appPath,omitempty" json:"appPath,omitempty"`
	AppArgs   string   `yaml:"appArgs,omitempty" json:"appArgs,omitempty"`
	StepIndex *int     `yaml:"stepIndex,omitempty" json:"stepIndex,omitempty"`
	FileMaps  PathMap  `yaml:"fileMaps,omitempty" json:"fileMaps,omitempty"`
	FilePaths []string `yaml:"filePaths,omitempty" json:"filePaths,omitempty"`
	Wait      *bool    `yaml:"wait,omitempty" json:"wait,omitempty"`
	Delay     *int     `yaml:"delay,omitempty" json:"delay,omitempty"`
}

func (d stepDoc) toStep() Step {
	s := Step{
		Content:     d.Content,
		ContentPath: d.ContentPath,
		Image:       d.Image,
		Actions:     toActions(d.Actions),
		IsBranch:    d.SwitchStep,
		YesActions:  toActions(d.YesActions),
		NoActions:   toActions(d.NoActions),
		Skippable:   true,
	}
	if d.Skippable != nil {
		s.Skippable = *d.Skippable
	}
	return s
}

func (d actionDoc) toAction() Action {
	a := Action{
		Kind:      ParseActionKind(d.StepType),
		AppPath:   d.AppPath,
		AppArgs:   d.AppArgs,
		StepIndex: d.StepIndex,
		PathMap:   d.FileMaps,
		Paths:     d.FilePaths,
		Wait:      ParseActionKind(d.StepType) == KindLaunchProcess,
		Delay:     d.Delay,
	}
	if d.Wait != nil {
		a.Wait = *d.Wait
	}
	return a
}

func toActions(docs []actionDoc) []Action {
	if len(docs) == 0 {
		return nil
	}
	out := make([]Action, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAction())
	}
	return out
}

func fromStep(s Step) stepDoc {
	skippable := s.Skippable
	return stepDoc{
		Content:     s.Content,
		ContentPath: s.ContentPath,
		Image:       s.Image,
		Actions:     fromActions(s.Actions),
		SwitchStep:  s.IsBranch,
		YesActions:  fromActions(s.YesActions),
		NoActions:   fromActions(s.NoActions),
		Skippable:   &skippable,
	}
}

func fromAction(a Action) actionDoc {
	d := actionDoc{
		StepType:  string(a.Kind),
		AppPath:   a.AppPath,
		AppArgs:   a.AppArgs,
		StepIndex: a.StepIndex,
		FileMaps:  a.PathMap,
		FilePaths: a.Paths,
		Delay:     a.Delay,
	}
	// wait only means something for process launches
	if a.Kind == KindLaunchProcess {
		wait := a.Wait
		d.Wait = &wait
	}
	return d
}

func fromActions(actions []Action) []actionDoc {
	if len(actions) == 0 {
		return nil
	}
	out := make([]actionDoc, 0, len(actions))
	for _, a := range actions {
		out = append(out, fromAction(a))
	}
	return out
}

// decodeSteps parses a setup document. Unknown keys are rejected so a
// misspelled field cannot silently fall back to its default.
func decodeSteps(data []byte, format Format) ([]Step, error) {
	var docs []stepDoc
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&docs); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&docs); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	steps := make([]Step, 0, len(docs))
	for _, d := range docs {
		steps = append(steps, d.toStep())
	}
	return steps, nil
}

// encodeSteps renders a setup document. Absent optional fields are omitted.
func encodeSteps(steps []Step, format Format) ([]byte, error) {
	docs := make([]stepDoc, 0, len(steps))
	for _, s := range steps {
		docs = append(docs, fromStep(s))
	}

	if format == FormatJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML reads a mapping node in document order.
func (m *PathMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*m = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fileMaps must be a mapping of source to destination", value.Line)
	}

	out := make(PathMap, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var src, dst string
		if err := value.Content[i].Decode(&src); err != nil {
			return fmt.Errorf("line %d: fileMaps source: %w", value.Content[i].Line, err)
		}
		if err := value.Content[i+1].Decode(&dst); err != nil {
			return fmt.Errorf("line %d: fileMaps destination for %q: %w", value.Content[i+1].Line, src, err)
		}
		out = append(out, PathMapping{Source: src, Destination: dst})
	}
	*m = out
	return nil
}

// MarshalYAML writes the entries as a mapping node in order.
func (m PathMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Source},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Destination},
		)
	}
	return node, nil
}

// UnmarshalJSON reads an object in document order.
func (m *PathMap) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fileMaps must be an object of source to destination")
	}

	var out PathMap
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		src, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fileMaps key must be a string")
		}
		var dst string
		if err := dec.Decode(&dst); err != nil {
			return fmt.Errorf("fileMaps destination for %q: %w", src, err)
		}
		out = append(out, PathMapping{Source: src, Destination: dst})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// MarshalJSON writes the entries as an object in order.
func (m PathMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Source)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Destination)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
