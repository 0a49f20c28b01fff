package handlers

import (
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/imamik/modsetup/internal/markers"
)

// Output formats accepted by status.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// statusReport is what status prints.
type statusReport struct {
	markers.Status
	Acknowledged bool `json:"acknowledged,omitempty"`
}

// Status inspects the marker files in the work dir and prints what a
// launcher should do. With ack, a complete marker is consumed.
func Status(global GlobalOptions, ack bool, output string) error {
	workDir, err := global.workDir()
	if err != nil {
		return err
	}

	store := markers.New(workDir)
	st, err := store.Inspect()
	if err != nil {
		return err
	}

	report := statusReport{Status: st}
	if ack && st.State == markers.StateCompleted {
		if report.Acknowledged, err = store.Acknowledge(); err != nil {
			return err
		}
	}

	out, err := formatStatus(report, output)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func formatStatus(r statusReport, output string) (string, error) {
	switch output {
	case "", OutputText:
		s := fmt.Sprintf("state: %s\n", r.State)
		if r.Message != "" {
			s += fmt.Sprintf("detail: %s\n", r.Message)
		}
		if r.RunID != "" {
			s += fmt.Sprintf("run: %s\n", r.RunID)
		}
		if r.Acknowledged {
			s += "acknowledged: true\n"
		}
		return s, nil
	case OutputJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal status: %w", err)
		}
		return string(data) + "\n", nil
	case OutputYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("failed to marshal status: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("invalid output format %q (expected text, json or yaml)", output)
	}
}
