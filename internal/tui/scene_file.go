package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/scene"
)

// ExternalSceneMsg supplies the structure shown while nothing is selected in
// the browser. Hosts may also send it with program.Send.
type ExternalSceneMsg struct {
	Scene    json.RawMessage
	Filename string
	Err      error
}

// LoadSceneFile reads a scene from disk. Both a bare scene and the service's
// {"scene": ...} envelope are accepted.
func LoadSceneFile(path string) tea.Cmd {
	return func() tea.Msg {
		name := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return ExternalSceneMsg{Filename: name, Err: err}
		}

		payload, err := unwrapScene(data)
		if err != nil {
			return ExternalSceneMsg{Filename: name, Err: err}
		}
		return ExternalSceneMsg{Scene: payload, Filename: name}
	}
}

func unwrapScene(data []byte) (json.RawMessage, error) {
	var envelope api.StructureScene
	if err := json.Unmarshal(data, &envelope); err == nil && !envelope.Empty() {
		data = envelope.Scene
	}
	if _, err := scene.Decode(data); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return json.RawMessage(data), nil
}
