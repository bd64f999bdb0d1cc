package drawing

import (
	"encoding/json"
	"fmt"

	"github.com/StudioSol/set"
)

// Export serializes the drawing list to a flat JSON array, timestamps
// as RFC 3339 strings.
func (e *Engine) Export() ([]byte, error) {
	objects := e.Objects()

	content, err := json.Marshal(objects)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal drawings: %w", err)
	}
	return content, nil
}

// Import replaces the drawing list wholesale with the serialized
// array. There are no merge semantics: current drawings and selection
// are discarded before the imported set is installed.
func (e *Engine) Import(data []byte) error {
	var objects []Object
	if err := json.Unmarshal(data, &objects); err != nil {
		return fmt.Errorf("failed to unmarshal drawings: %w", err)
	}

	e.mu.Lock()
	e.objects = make(map[string]*Object, len(objects))
	e.zOrder = set.NewLinkedHashSetString()
	e.selectedID = ""
	for i := range objects {
		obj := objects[i]
		e.objects[obj.ID] = &obj
		e.zOrder.Add(obj.ID)
	}
	count := len(e.objects)
	e.mu.Unlock()

	e.log.WithField("count", count).Debug("imported drawings")
	e.notify()
	return nil
}
