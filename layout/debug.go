package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将场景排版快照输出为 JSON，便于调试或可视化。
func WriteDebugJSON(scene *Scene, path string) error {
	if scene == nil {
		return nil
	}
	data, err := json.MarshalIndent(scene.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
